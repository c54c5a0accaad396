package media

// Schedule computes the capture timestamps (whole seconds) for a clip
// of the given duration. The number of captures grows by one for
// every incrementSeconds of runtime, clamped to [1, maxCount], and
// the timestamps are spread evenly across the clip: with count
// captures the step is duration/(count+1), so no timestamp ever
// lands on 0 or on the final frame (both tend to be black frames).
//
// The one exception is a zero- or near-zero-duration clip, which
// still yields a single capture at t=0; callers must tolerate
// capturing at the very first frame.
//
// Pure and deterministic; identical inputs always produce the
// identical sequence.
func Schedule(durationSeconds float64, maxCount int, incrementSeconds float64) []int {
	count := 0
	if incrementSeconds > 0 {
		count = int(durationSeconds / incrementSeconds)
	}
	if count < 1 {
		count = 1
	}
	if count > maxCount {
		count = maxCount
	}

	step := durationSeconds / float64(count+1)

	timestamps := make([]int, count)
	for i := range timestamps {
		timestamps[i] = int(step * float64(i+1))
	}

	return timestamps
}
