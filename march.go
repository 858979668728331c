package aurora

import "github.com/soypat/geometry/ms3"

// March integrates density along origin+t*dir for t in [tStart, tEnd] inclusive, stepping by
// stepSize and weighting each sample by stepWeight. A zero length segment takes exactly one sample.
// It returns 0 when tStart > tEnd or stepSize <= 0.
func March(s *Sampler, origin, dir ms3.Vec, tStart, tEnd, stepSize, stepWeight float32) (volume float32) {
	if !(stepSize > 0) {
		return 0
	}
	for t := tStart; t <= tEnd; t += stepSize {
		p := ms3.Add(origin, ms3.Scale(t, dir))
		volume += s.Sample(p) * stepWeight
		if t+stepSize == t {
			break // Step below float resolution at this t.
		}
	}
	return volume
}

// MarchSteps returns the number of samples [March] takes over [tStart, tEnd].
func MarchSteps(tStart, tEnd, stepSize float32) (n int) {
	if !(stepSize > 0) {
		return 0
	}
	for t := tStart; t <= tEnd; t += stepSize {
		n++
		if t+stepSize == t {
			break
		}
	}
	return n
}
