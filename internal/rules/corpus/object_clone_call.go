package corpus

import "inspequte/internal/rules"

func init() {
	rules.Register("OBJECT_CLONE_CALL", func() rules.Rule {
		return callSiteRule{
			id:          "OBJECT_CLONE_CALL",
			name:        "Object.clone() call",
			description: "Flags calls to the notoriously error-prone Object.clone() protocol (shallow-copy semantics, checked CloneNotSupportedException, no constructor run).",
			message:     "Object.clone() has error-prone shallow-copy semantics; prefer a copy constructor or factory method.",
			predicate:   exactCall("java/lang/Object", "clone", "()Ljava/lang/Object;"),
		}
	})
}
