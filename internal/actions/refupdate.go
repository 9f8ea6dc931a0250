package actions

import (
	"context"
	"fmt"

	stderrors "errors"

	"github.com/goccy/go-json"

	"shipit.dev/shipit/internal/errors"
	"shipit.dev/shipit/internal/github"
	"shipit.dev/shipit/internal/runtime"
)

// updateState tracks the per-invocation protocol state:
// idle -> requestSent -> {confirmed | rejected | transportFailed}
type updateState int

const (
	updateIdle updateState = iota
	updateRequestSent
	updateConfirmed
	updateRejected
	updateTransportFailed
)

func (s updateState) String() string {
	switch s {
	case updateIdle:
		return "idle"
	case updateRequestSent:
		return "request sent"
	case updateConfirmed:
		return "confirmed"
	case updateRejected:
		return "rejected"
	case updateTransportFailed:
		return "transport failed"
	}
	return "unknown"
}

// updateRef moves the branch ref to commitSHA, fast-forward only. By this
// point the tree and commit objects already exist on the remote; if the
// update fails they are orphaned, so every failure path carries their shas.
//
// The remote's git backend is known to return intermittent internal faults
// on this step specifically, after the two object creations succeeded. No
// automatic retry happens here: the full diagnostics are logged and
// returned so the caller can decide whether re-running is safe.
func updateRef(ctx context.Context, rt *runtime.Context, branch, treeSHA, commitSHA string) error {
	state := updateIdle
	rt.Splog.Debug("%s: heads/%s -> %s (%s)", stageUpdateRef, branch, commitSHA, state)

	state = updateRequestSent
	observedSHA, err := rt.Client.UpdateRef(ctx, branch, commitSHA)

	if err != nil {
		var re *github.RequestError
		if stderrors.As(err, &re) && re.Transport() {
			state = updateTransportFailed
			rt.Splog.Diagnostic(
				fmt.Sprintf("reference update on heads/%s: %s", branch, state),
				fmt.Sprintf("cause: %v", re.Err),
				fmt.Sprintf("possibly orphaned tree: %s", treeSHA),
				fmt.Sprintf("possibly orphaned commit: %s", commitSHA),
			)
			return &errors.TransportError{
				Stage:     stageUpdateRef,
				TreeSHA:   treeSHA,
				CommitSHA: commitSHA,
				Err:       re,
			}
		}

		state = updateRejected
		refErr := &errors.RefUpdateError{
			Branch:    branch,
			TreeSHA:   treeSHA,
			CommitSHA: commitSHA,
			Err:       err,
		}
		if re != nil {
			refErr.StatusCode = re.StatusCode
			refErr.Body = re.Body
			refErr.RequestID = re.RequestID
		}
		logRejection(rt, branch, state, refErr)
		return refErr
	}

	state = updateConfirmed
	rt.Splog.Debug("%s: heads/%s -> %s (%s)", stageUpdateRef, branch, commitSHA, state)

	// Defensive read-back against eventually-consistent reads. The write
	// was acknowledged, so a mismatch is logged rather than failed.
	verifySHA := observedSHA
	if readBack, verifyErr := rt.Client.GetRefSHA(ctx, branch); verifyErr == nil {
		verifySHA = readBack
	}
	if verifySHA != commitSHA {
		rt.Splog.Warn(
			"reference heads/%s reads back as %s after update to %s",
			branch, verifySHA, commitSHA,
		)
	}

	return nil
}

// logRejection emits the full diagnostics of a rejected update. The body is
// logged as raw text and, when it parses as a JSON object or array, in its
// structured form as well.
func logRejection(rt *runtime.Context, branch string, state updateState, refErr *errors.RefUpdateError) {
	lines := []string{
		fmt.Sprintf("status: %d", refErr.StatusCode),
		fmt.Sprintf("orphaned tree: %s", refErr.TreeSHA),
		fmt.Sprintf("orphaned commit: %s", refErr.CommitSHA),
	}
	if refErr.RequestID != "" {
		lines = append(lines, fmt.Sprintf("request id: %s", refErr.RequestID))
	}
	if refErr.Body != "" {
		lines = append(lines, fmt.Sprintf("body: %s", refErr.Body))
		if structured := parseBody(refErr.Body); structured != "" {
			lines = append(lines, fmt.Sprintf("parsed: %s", structured))
		}
	}

	rt.Splog.Diagnostic(
		fmt.Sprintf("reference update on heads/%s: %s", branch, state),
		lines...,
	)
}

// parseBody re-renders a response body that parses as a JSON object or
// array; other bodies yield "".
func parseBody(body string) string {
	var decoded interface{}
	if err := json.Unmarshal([]byte(body), &decoded); err != nil {
		return ""
	}
	switch decoded.(type) {
	case map[string]interface{}, []interface{}:
		out, err := json.Marshal(decoded)
		if err != nil {
			return ""
		}
		return string(out)
	}
	return ""
}
