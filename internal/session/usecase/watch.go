package usecase

// Watch registers a local termination listener for id.
// The returned cancel func must be called when the listener goes away.
func (uc *implUseCase) Watch(id string) (<-chan struct{}, func()) {
	ch := make(chan struct{})

	uc.watchMu.Lock()
	uc.watchSeq++
	seq := uc.watchSeq
	if uc.watchers[id] == nil {
		uc.watchers[id] = make(map[uint64]chan struct{})
	}
	uc.watchers[id][seq] = ch
	uc.watchMu.Unlock()

	cancel := func() {
		uc.watchMu.Lock()
		defer uc.watchMu.Unlock()
		if set, ok := uc.watchers[id]; ok {
			delete(set, seq)
			if len(set) == 0 {
				delete(uc.watchers, id)
			}
		}
	}
	return ch, cancel
}

func (uc *implUseCase) notify(id string) {
	uc.watchMu.Lock()
	set := uc.watchers[id]
	delete(uc.watchers, id)
	uc.watchMu.Unlock()

	for _, ch := range set {
		close(ch)
	}
}
