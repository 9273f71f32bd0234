package ir

import (
	"fmt"
	"sort"

	"inspequte/internal/archive"
	"inspequte/internal/classfile"
)

// LoadError records a single malformed or unreadable class file; the
// loader collects these and continues rather than aborting the whole
// load (spec.md 4.2's failure model / 7's MalformedClass kind).
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("malformed class file %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Collection is the flat set of classes produced by a single Load
// call, target classes and classpath classes merged per the
// target-wins dedup rule.
type Collection struct {
	Classes []Class // target classes first, in discovery order, then remaining classpath classes
}

// Load walks targetRoot and every entry of classpathRoots, parses
// every .class artifact found, and merges them into a single
// Collection: a class present under both the target root and a
// classpath root is recorded once, tagged Target (spec.md 4.2).
// excludePatterns is applied identically to every root.
func Load(targetRoot string, classpathRoots []string, excludePatterns []string) (*Collection, []error) {
	var loadErrs []error

	targetClasses, targetOrder, errs := loadRoot(targetRoot, archive.Target, excludePatterns)
	loadErrs = append(loadErrs, errs...)

	classpathClasses := make(map[string]Class)
	var classpathOrder []string
	for _, root := range classpathRoots {
		cpClasses, cpOrder, errs := loadRoot(root, archive.Classpath, excludePatterns)
		loadErrs = append(loadErrs, errs...)
		for _, name := range cpOrder {
			if _, seen := classpathClasses[name]; seen {
				continue
			}
			classpathClasses[name] = cpClasses[name]
			classpathOrder = append(classpathOrder, name)
		}
	}

	var merged []Class
	for _, name := range targetOrder {
		merged = append(merged, targetClasses[name])
	}
	for _, name := range classpathOrder {
		if _, isTarget := targetClasses[name]; isTarget {
			continue // target wins
		}
		merged = append(merged, classpathClasses[name])
	}

	return &Collection{Classes: merged}, loadErrs
}

func loadRoot(root string, origin archive.Origin, excludePatterns []string) (map[string]Class, []string, []error) {
	classes := make(map[string]Class)
	var order []string
	var errs []error

	if root == "" {
		return classes, order, errs
	}

	artifacts, err := archive.Discover(root, origin, excludePatterns)
	if err != nil {
		return classes, order, []error{err}
	}

	for _, a := range artifacts {
		data, err := a.Bytes()
		if err != nil {
			errs = append(errs, &LoadError{Path: string(a.URI), Err: err})
			continue
		}
		raw, err := classfile.ParseClass(data)
		if err != nil {
			errs = append(errs, &LoadError{Path: string(a.URI), Err: err})
			continue
		}
		class := fromRawClass(raw, toIROrigin(a.Origin), string(a.URI))
		if _, dup := classes[class.Name]; dup {
			continue
		}
		classes[class.Name] = class
		order = append(order, class.Name)
	}

	return classes, order, errs
}

func toIROrigin(o archive.Origin) Origin {
	if o == archive.Target {
		return Target
	}
	return Classpath
}

func fromRawClass(raw *classfile.RawClass, origin Origin, artifactURI string) Class {
	fields := make([]Field, 0, len(raw.Fields))
	for _, f := range raw.Fields {
		fields = append(fields, Field{Name: f.Name, Descriptor: f.Descriptor, AccessFlags: f.AccessFlags})
	}

	methods := make([]Method, 0, len(raw.Methods))
	for _, m := range raw.Methods {
		methods = append(methods, fromRawMethod(m))
	}

	return Class{
		Name:        raw.Name,
		SuperClass:  raw.SuperClass,
		Interfaces:  raw.Interfaces,
		AccessFlags: raw.AccessFlags,
		IsRecord:    raw.IsRecord,
		Fields:      fields,
		Methods:     methods,
		Origin:      origin,
		ArtifactURI: artifactURI,
	}
}

func fromRawMethod(m classfile.RawMethod) Method {
	method := Method{Name: m.Name, Descriptor: m.Descriptor, AccessFlags: m.AccessFlags}
	if m.Code == nil {
		return method
	}
	method.lines = m.Code.Lines
	callSites := make([]CallSite, 0, len(m.Code.CallSites))
	for _, cs := range m.Code.CallSites {
		if cs.Owner == "" {
			continue // unresolved invokedynamic bootstrap target, per spec.md 4.2
		}
		callSites = append(callSites, CallSite{
			Owner:      cs.Owner,
			Name:       cs.Name,
			Descriptor: cs.Descriptor,
			Offset:     cs.Offset,
			LineNumber: cs.LineNumber,
		})
	}
	method.CallSites = callSites
	return method
}

// SortedNames returns the class names present in c, sorted. Used by
// tests and by components that need a deterministic iteration order
// independent of load order.
func (c *Collection) SortedNames() []string {
	names := make([]string, 0, len(c.Classes))
	for _, cl := range c.Classes {
		names = append(names, cl.Name)
	}
	sort.Strings(names)
	return names
}
