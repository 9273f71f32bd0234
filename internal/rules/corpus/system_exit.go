package corpus

import (
	"inspequte/internal/ir"
	"inspequte/internal/rules"
)

func init() {
	rules.Register("SYSTEM_EXIT", func() rules.Rule {
		return callSiteRule{
			id:          "SYSTEM_EXIT",
			name:        "System.exit() call",
			description: "Flags calls to System.exit() outside the class's own entry point, since it bypasses normal shutdown and is unreachable in library code.",
			message:     "Avoid System.exit(): it terminates the whole JVM and bypasses caller-side error handling.",
			predicate:   exactCall("java/lang/System", "exit", "(I)V"),
			exempt:      systemExitExemption,
		}
	})
}

// systemExitExemption implements spec.md 4.4's class-local
// entry-point exemption: a call inside a public static
// main([Ljava/lang/String;)V is always exempt; a call inside a public
// static main()V is exempt only when the class also declares the
// standard main([Ljava/lang/String;)V entry point (the Kotlin
// top-level main facade pattern).
func systemExitExemption(class ir.Class, method ir.Method) bool {
	if !method.IsPublic() || !method.IsStatic() || method.Name != "main" {
		return false
	}
	if method.Descriptor == "([Ljava/lang/String;)V" {
		return true
	}
	if method.Descriptor == "()V" {
		return classHasStandardMain(class)
	}
	return false
}

func classHasStandardMain(class ir.Class) bool {
	for _, m := range class.Methods {
		if m.IsPublic() && m.IsStatic() && m.Name == "main" && m.Descriptor == "([Ljava/lang/String;)V" {
			return true
		}
	}
	return false
}
