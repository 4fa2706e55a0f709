package domain

import "strings"

const (
	TimeDimensionName   = "Session length (seconds)"
	DeviceDimensionName = "Device"
	NotSetBinName       = "Not set"

	appLaunchMarker  = "iOSAppLaunchEvent"
	deviceInfoMarker = "iOSDeviceInfo"
	// length of "iOSDeviceInfo:"
	deviceBinOffset = 14
)

// SecondMarks are the fixed session length boundaries.
var SecondMarks = []uint64{5, 10, 15, 30, 60, 120, 300}

type Dimension struct {
	Name string `json:"name"`
	Bins []Bin  `json:"bins"`
}

// BinNameByValue returns the first matching bin, or "".
func (d *Dimension) BinNameByValue(v uint64) string {
	for _, b := range d.Bins {
		if b.MatchValue(v) {
			return b.Name
		}
	}
	return ""
}

func (d *Dimension) BinNameByText(s string) string {
	for _, b := range d.Bins {
		if b.MatchText(s) {
			return b.Name
		}
	}
	return ""
}

func (d *Dimension) AddBinIfNotExists(b Bin) {
	for _, have := range d.Bins {
		if have.Name == b.Name {
			return
		}
	}
	d.Bins = append(d.Bins, b)
}

type Space struct {
	Dimensions []Dimension `json:"dimensions"`
}

func (s *Space) DimensionByName(name string) *Dimension {
	for i := range s.Dimensions {
		if s.Dimensions[i].Name == name {
			return &s.Dimensions[i]
		}
	}
	return nil
}

// Classify maps a feature to its dimension and, for shared dimensions, its
// bin. An empty dimension drops the feature; an empty bin means the bins
// come from the feature's distribution.
func Classify(feature string) (dimension, bin string) {
	switch {
	case feature == TimeDimensionName:
		return "", ""
	case strings.Contains(feature, appLaunchMarker):
		return "", ""
	case strings.Contains(feature, deviceInfoMarker):
		if len(feature) <= deviceBinOffset {
			return "", ""
		}
		return DeviceDimensionName, feature[deviceBinOffset:]
	default:
		return feature, ""
	}
}

// TimeDimension builds "< 5", "5 - 9", ..., "120 - 300", "> 300".
func TimeDimension() Dimension {
	d := Dimension{Name: TimeDimensionName}
	last := len(SecondMarks) - 2
	for i := 0; i <= last; i++ {
		a := SecondMarks[i]
		b := SecondMarks[i+1] - 1
		if i == last {
			b = SecondMarks[i+1]
		}
		if i == 0 {
			d.Bins = append(d.Bins, LessBin(a))
		}
		d.Bins = append(d.Bins, IntervalBin(a, b))
		if i == last {
			d.Bins = append(d.Bins, GreaterBin(b))
		}
	}
	return d
}
