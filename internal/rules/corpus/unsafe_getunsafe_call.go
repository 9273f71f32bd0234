package corpus

import "inspequte/internal/rules"

func init() {
	rules.Register("UNSAFE_GETUNSAFE_CALL", func() rules.Rule {
		return callSiteRule{
			id:          "UNSAFE_GETUNSAFE_CALL",
			name:        "Unsafe.getUnsafe() call",
			description: "Flags calls to sun.misc.Unsafe.getUnsafe(), an internal API that bypasses normal memory-safety and encapsulation guarantees.",
			message:     "sun.misc.Unsafe is an internal, unsupported API; its use bypasses normal memory-safety guarantees and can break across JVM versions.",
			predicate:   exactCall("sun/misc/Unsafe", "getUnsafe", "()Lsun/misc/Unsafe;"),
		}
	})
}
