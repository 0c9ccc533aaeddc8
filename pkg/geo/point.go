package geo

import "math"

// earthRadius is the WGS84 equatorial radius in meters.
const earthRadius = 6378137.0

// Point is a WGS84 coordinate with altitude in meters.
type Point struct {
	Lon, Lat, Alt float64
}

// ComputeBounds returns the bounding region of a point set. It reports
// false for an empty set.
func ComputeBounds(points []Point) (BBox, bool) {
	if len(points) == 0 {
		return BBox{}, false
	}
	b := BBox{
		MinLon: points[0].Lon, MinLat: points[0].Lat,
		MaxLon: points[0].Lon, MaxLat: points[0].Lat,
	}
	for _, p := range points[1:] {
		b.MinLon = min(b.MinLon, p.Lon)
		b.MinLat = min(b.MinLat, p.Lat)
		b.MaxLon = max(b.MaxLon, p.Lon)
		b.MaxLat = max(b.MaxLat, p.Lat)
	}
	return b, true
}

// DistanceMeters returns the great-circle distance between two points
// using the haversine formula. Altitude is ignored.
func DistanceMeters(p1, p2 Point) float64 {
	lat1 := toRadians(p1.Lat)
	lat2 := toRadians(p2.Lat)
	dLat := toRadians(p2.Lat - p1.Lat)
	dLon := toRadians(p2.Lon - p1.Lon)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadius * c
}

// AreaSquareMeters returns the approximate area of a region, correcting
// the longitude span by the cosine of the mean latitude. Good enough for
// tile-sized regions; not a geodesic area.
func AreaSquareMeters(b BBox) float64 {
	if b.Empty() {
		return 0
	}
	avgLat := (toRadians(b.MinLat) + toRadians(b.MaxLat)) / 2
	lonMeters := toRadians(b.Width()) * math.Cos(avgLat) * earthRadius
	latMeters := toRadians(b.Height()) * earthRadius
	return latMeters * lonMeters
}

func toRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}

// ToRadians returns the region corners in radians as west, south, east,
// north. Used by 3D Tiles region bounding volumes.
func (b BBox) ToRadians() (west, south, east, north float64) {
	return toRadians(b.MinLon), toRadians(b.MinLat), toRadians(b.MaxLon), toRadians(b.MaxLat)
}
