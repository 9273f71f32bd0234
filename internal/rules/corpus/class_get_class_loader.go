package corpus

import "inspequte/internal/rules"

func init() {
	rules.Register("CLASS_GET_CLASS_LOADER", func() rules.Rule {
		return callSiteRule{
			id:          "CLASS_GET_CLASS_LOADER",
			name:        "Class.getClassLoader() call",
			description: "Flags calls to Class.getClassLoader(), a common source of surprising behavior under OSGi, modular, or sandboxed classloading setups.",
			message:     "Class.getClassLoader() can return null or an unexpected loader under modular/sandboxed classloading; verify the assumption holds in this deployment.",
			predicate:   exactCall("java/lang/Class", "getClassLoader", "()Ljava/lang/ClassLoader;"),
		}
	})
}
