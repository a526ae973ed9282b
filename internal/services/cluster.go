package services

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat"

	"waste-route-service/internal/domain"
	"waste-route-service/internal/platform/apperr"
)

// ClusterRequests partitions requests into k groups by location.
//
// Latitude and longitude are standardized independently, then k-means with
// k-means++ seeding runs opts.Restarts times from a generator seeded with
// opts.Seed; the run with the lowest inertia wins. Every request lands in
// exactly one cluster. Clusters 0..k-1 are always present in the result but
// may be empty when k exceeds the number of natural groupings.
//
// All state is local to the call, so concurrent calls are safe.
func ClusterRequests(requests []domain.ServiceRequest, k int, opts ClusterOptions) (map[int][]domain.ServiceRequest, error) {
	if len(requests) == 0 || k <= 0 {
		return nil, apperr.NoCapacity(len(requests), k)
	}
	for _, r := range requests {
		if !r.HasLocation() {
			return nil, apperr.InvalidCoordinate("service_request", r.ID)
		}
	}
	if k > len(requests) {
		k = len(requests)
	}

	clusters := make(map[int][]domain.ServiceRequest, k)
	for c := 0; c < k; c++ {
		clusters[c] = []domain.ServiceRequest{}
	}

	if k == 1 {
		clusters[0] = append(clusters[0], requests...)
		return clusters, nil
	}

	labels := kmeans(standardize(requests), k, opts)
	for i, label := range labels {
		clusters[label] = append(clusters[label], requests[i])
	}
	return clusters, nil
}

type point [2]float64

// standardize maps each coordinate to zero mean and unit population variance.
// A constant dimension is only centred.
func standardize(requests []domain.ServiceRequest) []point {
	lats := make([]float64, len(requests))
	lons := make([]float64, len(requests))
	for i, r := range requests {
		lats[i] = r.Location.Lat
		lons[i] = r.Location.Lon
	}

	latMean, latStd := stat.PopMeanStdDev(lats, nil)
	lonMean, lonStd := stat.PopMeanStdDev(lons, nil)
	if latStd == 0 || math.IsNaN(latStd) {
		latStd = 1
	}
	if lonStd == 0 || math.IsNaN(lonStd) {
		lonStd = 1
	}

	points := make([]point, len(requests))
	for i := range requests {
		points[i] = point{(lats[i] - latMean) / latStd, (lons[i] - lonMean) / lonStd}
	}
	return points
}

func kmeans(points []point, k int, opts ClusterOptions) []int {
	restarts := max(opts.Restarts, 1)
	maxIter := max(opts.MaxIterations, 1)

	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed))

	var bestLabels []int
	bestInertia := math.Inf(1)
	for run := 0; run < restarts; run++ {
		centroids := seedCentroids(points, k, rng)
		labels, inertia := lloyd(points, centroids, maxIter, opts.Tolerance)
		if inertia < bestInertia {
			bestInertia = inertia
			bestLabels = labels
		}
	}
	return bestLabels
}

// seedCentroids picks k initial centroids with k-means++: each new centroid is
// drawn with probability proportional to its squared distance from the
// nearest centroid chosen so far.
func seedCentroids(points []point, k int, rng *rand.Rand) []point {
	centroids := make([]point, 0, k)
	centroids = append(centroids, points[rng.IntN(len(points))])

	d2 := make([]float64, len(points))
	for len(centroids) < k {
		total := 0.0
		for i, p := range points {
			d2[i] = math.Inf(1)
			for _, c := range centroids {
				d2[i] = math.Min(d2[i], sqDist(p, c))
			}
			total += d2[i]
		}

		// Every point coincides with a centroid; duplicate one. Its cluster stays empty.
		if total == 0 {
			centroids = append(centroids, points[0])
			continue
		}

		target := rng.Float64() * total
		chosen := -1
		acc := 0.0
		for i, w := range d2 {
			if w == 0 {
				continue
			}
			acc += w
			chosen = i
			if acc >= target {
				break
			}
		}
		centroids = append(centroids, points[chosen])
	}
	return centroids
}

// lloyd alternates assignment and centroid updates until no centroid moves
// more than tol or maxIter is reached. A centroid that loses all its points
// stays where it was.
func lloyd(points []point, centroids []point, maxIter int, tol float64) ([]int, float64) {
	k := len(centroids)
	labels := make([]int, len(points))

	for iter := 0; iter < maxIter; iter++ {
		assign(points, centroids, labels)

		sums := make([]point, k)
		counts := make([]int, k)
		for i, p := range points {
			c := labels[i]
			sums[c][0] += p[0]
			sums[c][1] += p[1]
			counts[c]++
		}

		shift := 0.0
		for c := 0; c < k; c++ {
			if counts[c] == 0 {
				continue
			}
			next := point{sums[c][0] / float64(counts[c]), sums[c][1] / float64(counts[c])}
			shift = math.Max(shift, math.Sqrt(sqDist(next, centroids[c])))
			centroids[c] = next
		}
		if shift <= tol {
			break
		}
	}

	inertia := assign(points, centroids, labels)
	return labels, inertia
}

// assign labels each point with its nearest centroid (lowest index on ties)
// and returns the summed squared distances.
func assign(points []point, centroids []point, labels []int) float64 {
	inertia := 0.0
	for i, p := range points {
		best := 0
		bestD := sqDist(p, centroids[0])
		for c := 1; c < len(centroids); c++ {
			if d := sqDist(p, centroids[c]); d < bestD {
				best, bestD = c, d
			}
		}
		labels[i] = best
		inertia += bestD
	}
	return inertia
}

func sqDist(a, b point) float64 {
	dx := a[0] - b[0]
	dy := a[1] - b[1]
	return dx*dx + dy*dy
}
