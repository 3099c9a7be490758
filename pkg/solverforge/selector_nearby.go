package solverforge

import "sort"

// DistanceMeter measures how far destination is from origin, in whatever
// unit the caller's domain uses (spec.md §4.H's nearby selection; grounded
// on nearby.rs's NearbyDistanceMeter trait). Implementations should be
// stateless and safe to call repeatedly; distance need not be symmetric.
type DistanceMeter[S any] interface {
	Distance(director Director[S], origin, destination EntityReference) float64
}

// NearbyDistanceMeterFunc adapts a plain function to DistanceMeter.
type NearbyDistanceMeterFunc[S any] func(director Director[S], origin, destination EntityReference) float64

func (f NearbyDistanceMeterFunc[S]) Distance(director Director[S], origin, destination EntityReference) float64 {
	return f(director, origin, destination)
}

// NearbySelectionConfig controls how a NearbyEntitySelector narrows its
// child's candidates (nearby.rs's NearbySelectionConfig). MaxNearbySize <= 0
// means unbounded.
type NearbySelectionConfig struct {
	MaxNearbySize int
	MinDistance   float64
}

// NearbyEntitySelector narrows a child EntitySelector down to the entities
// nearest an origin entity recorded by a MimicRecorder, sorted closest
// first (spec.md §4.H; grounded on nearby.rs's NearbyEntitySelector). Unlike
// the source's zero-erasure generic parameter over the child selector type,
// Go's EntitySelector interface already gives single-allocation dispatch
// here; genericity over the concrete child type would buy nothing since
// Iterate already returns a type-erased MoveIterator.
type NearbyEntitySelector[S any] struct {
	Child          EntitySelector[S]
	OriginRecorder *MimicRecorder
	Meter          DistanceMeter[S]
	Config         NearbySelectionConfig
}

func NewNearbyEntitySelector[S any](child EntitySelector[S], originRecorder *MimicRecorder, meter DistanceMeter[S], config NearbySelectionConfig) *NearbyEntitySelector[S] {
	return &NearbyEntitySelector[S]{Child: child, OriginRecorder: originRecorder, Meter: meter, Config: config}
}

func (s *NearbyEntitySelector[S]) Iterate(director Director[S]) MoveIterator[EntityReference] {
	return func(yield func(EntityReference) bool) {
		origin, ok := s.OriginRecorder.Recorded()
		if !ok {
			return
		}
		type candidate struct {
			ref  EntityReference
			dist float64
		}
		var candidates []candidate
		s.Child.Iterate(director)(func(dest EntityReference) bool {
			if dest == origin {
				return true
			}
			dist := s.Meter.Distance(director, origin, dest)
			if dist >= s.Config.MinDistance {
				candidates = append(candidates, candidate{ref: dest, dist: dist})
			}
			return true
		})
		sort.Slice(candidates, func(i, j int) bool { return candidates[i].dist < candidates[j].dist })
		if s.Config.MaxNearbySize > 0 && len(candidates) > s.Config.MaxNearbySize {
			candidates = candidates[:s.Config.MaxNearbySize]
		}
		for _, c := range candidates {
			if !yield(c.ref) {
				return
			}
		}
	}
}

// Size reports the child's size as an upper bound, capped by MaxNearbySize
// if set; the true size depends on the recorded origin and is not known
// without iterating (nearby.rs treats its size the same way: an estimate).
func (s *NearbyEntitySelector[S]) Size(director Director[S]) int {
	childSize := s.Child.Size(director)
	if s.Config.MaxNearbySize > 0 && s.Config.MaxNearbySize < childSize {
		return s.Config.MaxNearbySize
	}
	return childSize
}
