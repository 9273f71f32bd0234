package corpus

import "inspequte/internal/rules"

func init() {
	rules.Register("SYSTEM_GC_CALL", func() rules.Rule {
		return callSiteRule{
			id:          "SYSTEM_GC_CALL",
			name:        "System.gc() call",
			description: "Flags explicit System.gc() calls, which rarely help and can introduce unpredictable pause spikes.",
			message:     "Avoid System.gc(): the JVM's garbage collector already schedules collections; explicit calls are a suggestion the JVM may ignore and can cause pause spikes.",
			predicate:   exactCall("java/lang/System", "gc", "()V"),
		}
	})
}
