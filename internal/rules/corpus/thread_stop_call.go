package corpus

import "inspequte/internal/rules"

func init() {
	rules.Register("THREAD_STOP_CALL", func() rules.Rule {
		return callSiteRule{
			id:          "THREAD_STOP_CALL",
			name:        "Thread.stop() call",
			description: "Flags calls to the deprecated, inherently unsafe Thread.stop().",
			message:     "Avoid Thread.stop(): it can leave monitors in a corrupted state and is deprecated for removal.",
			predicate:   exactCall("java/lang/Thread", "stop", "()V"),
		}
	})
}
