package corpus

import "inspequte/internal/rules"

func init() {
	rules.Register("RUNTIME_EXEC_CALL", func() rules.Rule {
		return callSiteRule{
			id:          "RUNTIME_EXEC_CALL",
			name:        "Runtime.exec() call",
			description: "Flags calls to any overload of Runtime.exec(), which spawns an OS process and is a common shell-injection vector when arguments include unsanitized input.",
			message:     "Runtime.exec() spawns an OS process; verify arguments are not built from unsanitized input.",
			predicate:   callByName("java/lang/Runtime", "exec"),
		}
	})
}
