package arena

// Temp is a scoped region: it remembers an arena's cursor at Begin and
// restores it at End, releasing everything allocated in between.
type Temp struct {
	arena *Arena
	mark  uint64
}

// Begin opens a scope over a.
func Begin(a *Arena) Temp {
	return Temp{arena: a, mark: a.Position()}
}

// End releases every allocation made since Begin. Scopes over the same arena
// must end in reverse order of Begin.
func (t Temp) End() {
	t.arena.PopTo(t.mark)
}

// Arena returns the arena the scope allocates from.
func (t Temp) Arena() *Arena {
	return t.arena
}

// Mark returns the cursor recorded at Begin.
func (t Temp) Mark() uint64 {
	return t.mark
}
