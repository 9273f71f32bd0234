package descriptor

import "testing"

func TestParamCount(t *testing.T) {
	tests := []struct {
		descriptor string
		expected   int
	}{
		{"()V", 0},
		{"(I)V", 1},
		{"(II)I", 2},
		{"([Ljava/lang/String;)V", 1},
		{"(Ljava/lang/String;IJ)Z", 3},
		{"([[I)V", 1},
		{"(Lcom/example/Foo;Lcom/example/Bar;)Lcom/example/Baz;", 2},
	}

	for _, tt := range tests {
		got, err := ParamCount(tt.descriptor)
		if err != nil {
			t.Fatalf("ParamCount(%q) returned error: %v", tt.descriptor, err)
		}
		if got != tt.expected {
			t.Errorf("ParamCount(%q) = %d, want %d", tt.descriptor, got, tt.expected)
		}
	}
}

func TestReturnKind(t *testing.T) {
	tests := []struct {
		descriptor string
		expected   Kind
	}{
		{"()V", Void},
		{"(I)I", Primitive},
		{"(I)Z", Primitive},
		{"(I)Ljava/lang/String;", Reference},
		{"()[I", Reference},
		{"()[Ljava/lang/String;", Reference},
	}

	for _, tt := range tests {
		got, err := ReturnKind(tt.descriptor)
		if err != nil {
			t.Fatalf("ReturnKind(%q) returned error: %v", tt.descriptor, err)
		}
		if got != tt.expected {
			t.Errorf("ReturnKind(%q) = %v, want %v", tt.descriptor, got, tt.expected)
		}
	}
}

func TestMalformedDescriptor(t *testing.T) {
	malformed := []string{
		"",
		"I)V",
		"(I",
		"(Q)V",
		"(I)",
		"(Lcom/example/Foo)V",
	}

	for _, d := range malformed {
		if _, err := ParamCount(d); err == nil {
			t.Errorf("ParamCount(%q) expected error, got nil", d)
		}
		if _, err := ReturnKind(d); err == nil {
			t.Errorf("ReturnKind(%q) expected error, got nil", d)
		}
	}
}

func TestMalformedDescriptorErrorMessage(t *testing.T) {
	_, err := ParamCount("garbage")
	if err == nil {
		t.Fatal("expected error")
	}
	var mde *MalformedDescriptorError
	if _, ok := err.(*MalformedDescriptorError); !ok {
		t.Fatalf("expected *MalformedDescriptorError, got %T", err)
	} else {
		mde = err.(*MalformedDescriptorError)
	}
	if mde.Error() == "" {
		t.Error("expected non-empty error message")
	}
}
