package corpus

import "inspequte/internal/rules"

func init() {
	rules.Register("PROCESSBUILDER_START_CALL", func() rules.Rule {
		return callSiteRule{
			id:          "PROCESSBUILDER_START_CALL",
			name:        "ProcessBuilder.start() call",
			description: "Flags calls to ProcessBuilder.start(), the same OS-process-spawning concern as Runtime.exec() but via the builder API.",
			message:     "ProcessBuilder.start() spawns an OS process; verify its command and arguments are not built from unsanitized input.",
			predicate:   exactCall("java/lang/ProcessBuilder", "start", "()Ljava/lang/Process;"),
		}
	})
}
