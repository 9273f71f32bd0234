package corpus

import "inspequte/internal/rules"

func init() {
	rules.Register("SYSTEM_SET_SECURITY_MANAGER", func() rules.Rule {
		return callSiteRule{
			id:          "SYSTEM_SET_SECURITY_MANAGER",
			name:        "System.setSecurityManager() call",
			description: "Flags calls to System.setSecurityManager(), deprecated for removal and a sign of reliance on the legacy security-manager mechanism.",
			message:     "System.setSecurityManager() is deprecated for removal; the security manager mechanism is being phased out of the platform.",
			predicate:   exactCall("java/lang/System", "setSecurityManager", "(Ljava/lang/SecurityManager;)V"),
		}
	})
}
