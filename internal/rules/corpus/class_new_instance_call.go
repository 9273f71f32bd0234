package corpus

import "inspequte/internal/rules"

func init() {
	rules.Register("CLASS_NEW_INSTANCE_CALL", func() rules.Rule {
		return callSiteRule{
			id:          "CLASS_NEW_INSTANCE_CALL",
			name:        "Class.newInstance() call",
			description: "Flags calls to the deprecated Class.newInstance(), which propagates checked constructor exceptions unchecked and bypasses constructor access checks.",
			message:     "Avoid Class.newInstance(): it is deprecated. Use Constructor.newInstance() via getDeclaredConstructor() instead.",
			predicate:   exactCall("java/lang/Class", "newInstance", "()Ljava/lang/Object;"),
		}
	})
}
