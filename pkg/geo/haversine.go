package geo

import "math"

// EarthRadiusM 地球半径（米），与存量数据口径一致，不可改动
const EarthRadiusM = 6371000.0

// Point 经纬度坐标值对象，构造后不再修改
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Distance 计算两点间的大圆距离（haversine 公式，单位米）
// 只使用经度差参与计算，跨越 180° 经线时结果依然正确；
// 非法输入（NaN）按 IEEE 语义向外传播，范围校验由调用方负责
func Distance(a, b Point) float64 {
	φ1 := a.Lat * math.Pi / 180
	φ2 := b.Lat * math.Pi / 180
	dφ := (b.Lat - a.Lat) * math.Pi / 180
	dλ := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dφ/2)*math.Sin(dφ/2) +
		math.Cos(φ1)*math.Cos(φ2)*math.Sin(dλ/2)*math.Sin(dλ/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusM * c
}

// ValidCoordinate 校验纬度 [-90,90]、经度 [-180,180]
func ValidCoordinate(lat, lng float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lng) {
		return false
	}
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}
