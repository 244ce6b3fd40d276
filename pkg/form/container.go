package form

import "github.com/goliatone/go-formfield/pkg/field"

// Container is the arena a hosting screen supplies. Fields never insert
// themselves; the builder hands their surfaces to the container, which alone
// decides placement and removal.
type Container interface {
	Mount(surface *field.Surface)
	Unmount(surface *field.Surface)
}

// Replacer is an optional Container extension that swaps a mounted surface
// for its successor in place.
type Replacer interface {
	Replace(previous, current *field.Surface)
}

// Stack is a Container that keeps surfaces in mount order.
type Stack struct {
	surfaces []*field.Surface
}

var _ Replacer = (*Stack)(nil)

// NewStack returns an empty stack.
func NewStack() *Stack {
	return &Stack{}
}

// Mount appends surface unless it is already mounted.
func (s *Stack) Mount(surface *field.Surface) {
	if surface == nil || s.index(surface) >= 0 {
		return
	}
	s.surfaces = append(s.surfaces, surface)
}

// Unmount removes surface if present.
func (s *Stack) Unmount(surface *field.Surface) {
	if surface == nil {
		return
	}
	idx := s.index(surface)
	if idx < 0 {
		return
	}
	s.surfaces = append(s.surfaces[:idx], s.surfaces[idx+1:]...)
}

// Replace puts current at the position of previous, appending it when
// previous is not mounted.
func (s *Stack) Replace(previous, current *field.Surface) {
	if current == nil {
		s.Unmount(previous)
		return
	}
	if previous == nil || s.index(current) >= 0 {
		s.Unmount(previous)
		s.Mount(current)
		return
	}
	idx := s.index(previous)
	if idx < 0 {
		s.Mount(current)
		return
	}
	s.surfaces[idx] = current
}

// Surfaces returns the mounted surfaces in order.
func (s *Stack) Surfaces() []*field.Surface {
	return append([]*field.Surface(nil), s.surfaces...)
}

// Len reports the number of mounted surfaces.
func (s *Stack) Len() int {
	return len(s.surfaces)
}

func (s *Stack) index(surface *field.Surface) int {
	for i, mounted := range s.surfaces {
		if mounted.MountID == surface.MountID {
			return i
		}
	}
	return -1
}
