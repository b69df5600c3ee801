package coverage

import "sync"

// VisitedFiles remembers which files have been measured. The owner decides
// its lifetime: one per request, or one shared by the whole process.
type VisitedFiles struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

// NewVisitedFiles returns an empty set.
func NewVisitedFiles() *VisitedFiles {
	return &VisitedFiles{seen: make(map[string]struct{})}
}

// Visit records path and reports whether it had been recorded before.
func (v *VisitedFiles) Visit(path string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	if _, ok := v.seen[path]; ok {
		return true
	}
	v.seen[path] = struct{}{}
	return false
}

// Len returns the number of recorded paths.
func (v *VisitedFiles) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.seen)
}
