package till

const journalCap = 32

// journal is a bounded till roll. Lines are plain ASCII so they can be written to
// the terminal panel and the log unchanged.
type journal struct {
	buf     []string
	pending int
}

func (j *journal) add(line string) {
	if len(j.buf) == journalCap {
		copy(j.buf, j.buf[1:])
		j.buf = j.buf[:journalCap-1]
	}
	j.buf = append(j.buf, line)
	if j.pending < journalCap {
		j.pending++
	}
}

func (j *journal) lines() []string {
	out := make([]string, len(j.buf))
	copy(out, j.buf)
	return out
}

func (j *journal) take() []string {
	if j.pending == 0 {
		return nil
	}
	out := make([]string, j.pending)
	copy(out, j.buf[len(j.buf)-j.pending:])
	j.pending = 0
	return out
}
