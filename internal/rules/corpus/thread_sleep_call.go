package corpus

import "inspequte/internal/rules"

func init() {
	rules.Register("THREAD_SLEEP_CALL", func() rules.Rule {
		return callSiteRule{
			id:          "THREAD_SLEEP_CALL",
			name:        "Thread.sleep() call",
			description: "Flags calls to Thread.sleep(), a common sign of polling or fixed-delay logic that should use a proper wait/notify or scheduler.",
			message:     "Thread.sleep() blocks the calling thread for a fixed duration; consider a condition wait, scheduler, or async timer instead.",
			predicate:   callByName("java/lang/Thread", "sleep"),
		}
	})
}
