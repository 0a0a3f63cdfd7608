package remote

// Target is a leaf that can display a remote error.
type Target interface {
	SetError(message string)
}

// Container is a node that can be descended into by one path segment.
type Container interface {
	Child(segment Segment) (any, bool)
}

// Report describes how a batch of errors was distributed.
type Report struct {
	// Applied errors reached a Target.
	Applied []Error
	// FormLevel errors carried no path.
	FormLevel []Error
	// Unresolved errors carried a path that did not lead to a Target.
	Unresolved []Error
}

// FormMessages returns the messages to show at form level: path-less errors
// first, then the unresolved ones.
func (r Report) FormMessages() []string {
	combined := make([]Error, 0, len(r.FormLevel)+len(r.Unresolved))
	combined = append(combined, r.FormLevel...)
	combined = append(combined, r.Unresolved...)
	return Messages(combined)
}

// Resolve walks path from root and returns the Target at its end.
func Resolve(root any, path Path) (Target, bool) {
	if path.Empty() {
		return nil, false
	}

	current := root
	for _, segment := range path {
		container, ok := current.(Container)
		if !ok {
			return nil, false
		}
		next, ok := container.Child(segment)
		if !ok || next == nil {
			return nil, false
		}
		current = next
	}

	target, ok := current.(Target)
	return target, ok
}

// Reconcile applies every path-addressed error in errs to the Target its
// path resolves to, in order, so a later error on the same leaf wins.
func Reconcile(root any, errs []Error) Report {
	var report Report
	for _, err := range errs {
		if err.IsFormLevel() {
			report.FormLevel = append(report.FormLevel, err)
			continue
		}

		target, ok := Resolve(root, err.FieldPath)
		if !ok {
			report.Unresolved = append(report.Unresolved, err)
			continue
		}
		target.SetError(err.Message)
		report.Applied = append(report.Applied, err)
	}
	return report
}
