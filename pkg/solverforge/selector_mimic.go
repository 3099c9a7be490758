package solverforge

// MimicRecorder remembers the most recent EntityReference a
// MimicRecordingEntitySelector produced, so an unrelated selector (most
// often a NearbyEntitySelector) can read it back as an "origin" without the
// two selectors being wired together directly. Grounded on the recorder/
// recording-selector pair nearby.rs's tests construct (MimicRecorder::new,
// get_recorded_entity, MimicRecordingEntitySelector::new) — the recorder's
// own source file was not part of the retained pack, so its internals here
// are a direct, minimal reconstruction of that observed usage rather than a
// port.
type MimicRecorder struct {
	id       string
	recorded *EntityReference
}

// NewMimicRecorder creates a recorder identified by id (purely for
// debugging/logging; it plays no role in lookup).
func NewMimicRecorder(id string) *MimicRecorder {
	return &MimicRecorder{id: id}
}

func (r *MimicRecorder) ID() string { return r.id }

// Record stores ref as the most recently produced entity.
func (r *MimicRecorder) Record(ref EntityReference) { r.recorded = &ref }

// Recorded returns the last recorded entity, or false if nothing has been
// recorded yet (e.g. the recording selector hasn't been iterated this step).
func (r *MimicRecorder) Recorded() (EntityReference, bool) {
	if r.recorded == nil {
		return EntityReference{}, false
	}
	return *r.recorded, true
}

// MimicRecordingEntitySelector wraps a child EntitySelector and records
// every entity it yields into recorder as a side effect of iteration, so a
// later selector pass (typically a NearbyEntitySelector) can read back
// "whatever the top-level change/swap selector just picked" as its origin.
type MimicRecordingEntitySelector[S any] struct {
	Child    EntitySelector[S]
	Recorder *MimicRecorder
}

func NewMimicRecordingEntitySelector[S any](child EntitySelector[S], recorder *MimicRecorder) *MimicRecordingEntitySelector[S] {
	return &MimicRecordingEntitySelector[S]{Child: child, Recorder: recorder}
}

func (s *MimicRecordingEntitySelector[S]) Iterate(director Director[S]) MoveIterator[EntityReference] {
	child := s.Child.Iterate(director)
	return func(yield func(EntityReference) bool) {
		child(func(ref EntityReference) bool {
			s.Recorder.Record(ref)
			return yield(ref)
		})
	}
}

func (s *MimicRecordingEntitySelector[S]) Size(director Director[S]) int {
	return s.Child.Size(director)
}
