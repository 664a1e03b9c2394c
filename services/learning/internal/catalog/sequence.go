package catalog

// Sequence flattens modules into the ordered lesson list used for lock
// computation. Hidden modules are skipped unless includeHidden is set
// (admin viewers see the unfiltered sequence).
func Sequence(modules []Module, includeHidden bool) []Lesson {
	var seq []Lesson
	for _, m := range modules {
		if !m.Visible && !includeHidden {
			continue
		}
		seq = append(seq, m.Lessons...)
	}
	return seq
}

// IndexOf returns the position of lessonID in seq, or -1 when absent.
func IndexOf(seq []Lesson, lessonID string) int {
	for i, l := range seq {
		if l.ID == lessonID {
			return i
		}
	}
	return -1
}

// NextAfter returns the lesson following lessonID in seq, or nil when
// lessonID is last or absent.
func NextAfter(seq []Lesson, lessonID string) *Lesson {
	idx := IndexOf(seq, lessonID)
	if idx < 0 || idx+1 >= len(seq) {
		return nil
	}
	next := seq[idx+1]
	return &next
}
