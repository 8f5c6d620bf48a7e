// Package audit records authorization state changes as structured events.
//
// A Trail stamps each change (role grant, permission revocation, ...) with a
// unique ID, timestamp and the acting subject resolved from the call context,
// then hands the event to a Recorder. Two recorders ship with the package:
// MemoryRecorder for tests and small deployments, and SlogRecorder for
// shipping events into a structured log stream.
//
// # Usage
//
//	recorder := audit.NewMemoryRecorder()
//	trail, err := audit.New(recorder,
//	    audit.WithActorExtractor(func(ctx context.Context) (string, bool) {
//	        return authzkit.GetSubjectFromContext(ctx)
//	    }),
//	)
//	if err != nil {
//	    return err
//	}
//
//	_ = trail.Record(ctx, audit.OpGrantRole, "g", []string{"alice", "admin"}, true)
//
// No-op mutations are still worth recording: the Changed flag carries
// whether the underlying store moved, so a revoke of a role never held shows
// up as an attempted change that did nothing.
package audit
