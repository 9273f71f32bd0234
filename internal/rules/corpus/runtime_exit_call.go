package corpus

import "inspequte/internal/rules"

func init() {
	rules.Register("RUNTIME_EXIT_CALL", func() rules.Rule {
		return callSiteRule{
			id:          "RUNTIME_EXIT_CALL",
			name:        "Runtime.exit() call",
			description: "Flags calls to Runtime.exit(), the instance-method equivalent of System.exit() with the same abrupt-termination risk.",
			message:     "Avoid Runtime.exit(): it terminates the whole JVM and bypasses caller-side error handling.",
			predicate:   exactCall("java/lang/Runtime", "exit", "(I)V"),
		}
	})
}
