package platform

import (
	"sort"
	"strings"

	"social-hub/domain/repository"
)

// Registry maps a platform tag to its adapter. Dispatch everywhere goes
// through here; supporting a new platform means registering one more
// adapter, not editing a switch.
type Registry struct {
	adapters map[string]repository.IPlatformAdapter
}

func NewRegistry(adapters ...repository.IPlatformAdapter) *Registry {
	m := make(map[string]repository.IPlatformAdapter, len(adapters))
	for _, a := range adapters {
		m[strings.ToLower(a.Platform())] = a
	}
	return &Registry{adapters: m}
}

func (r *Registry) Get(platform string) (repository.IPlatformAdapter, bool) {
	a, ok := r.adapters[strings.ToLower(platform)]
	return a, ok
}

func (r *Registry) Platforms() []string {
	out := make([]string, 0, len(r.adapters))
	for p := range r.adapters {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
