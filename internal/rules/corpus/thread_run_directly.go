package corpus

import "inspequte/internal/rules"

func init() {
	rules.Register("THREAD_RUN_DIRECTLY", func() rules.Rule {
		return callSiteRule{
			id:          "THREAD_RUN_DIRECTLY",
			name:        "Thread.run() called directly",
			description: "Flags direct calls to Thread.run(), which executes on the calling thread instead of spawning a new one.",
			message:     "Calling Thread.run() directly executes on the current thread; call start() to actually run on a new thread.",
			predicate:   exactCall("java/lang/Thread", "run", "()V"),
		}
	})
}
