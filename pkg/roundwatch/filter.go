package roundwatch

// compiledFilter holds pre-compiled include/exclude sets of notification kinds.
type compiledFilter struct {
	include map[NotificationKind]struct{}
	exclude map[NotificationKind]struct{}
}

// newCompiledFilter returns nil if both slices are empty (no filtering needed).
func newCompiledFilter(include, exclude []NotificationKind) *compiledFilter {
	if len(include) == 0 && len(exclude) == 0 {
		return nil
	}

	f := &compiledFilter{}

	if len(include) > 0 {
		f.include = make(map[NotificationKind]struct{}, len(include))
		for _, k := range include {
			f.include[k] = struct{}{}
		}
	}

	if len(exclude) > 0 {
		f.exclude = make(map[NotificationKind]struct{}, len(exclude))
		for _, k := range exclude {
			f.exclude[k] = struct{}{}
		}
	}

	return f
}

// Allows returns true if the given kind passes the filter.
// If include is non-empty, only kinds in include are allowed.
// Kinds in exclude are always rejected.
func (f *compiledFilter) Allows(k NotificationKind) bool {
	if f == nil {
		return true
	}

	if len(f.include) > 0 {
		if _, ok := f.include[k]; !ok {
			return false
		}
	}

	if len(f.exclude) > 0 {
		if _, ok := f.exclude[k]; ok {
			return false
		}
	}

	return true
}
