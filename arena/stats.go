package arena

// Stats is a snapshot of arena usage.
type Stats struct {
	Used        uint64  // Bytes allocated past the header, alignment padding included
	Capacity    uint64  // Block size, header included
	Remaining   uint64  // Bytes still available
	Utilization float64 // Used / (Capacity - HeaderSize), 0.0-1.0
}

// Stats returns a snapshot of the arena's usage.
func (a *Arena) Stats() Stats {
	used := a.Position() - HeaderSize
	usable := a.Capacity() - HeaderSize
	s := Stats{
		Used:      used,
		Capacity:  a.Capacity(),
		Remaining: a.Remaining(),
	}
	if usable > 0 {
		s.Utilization = float64(used) / float64(usable)
	}
	return s
}
