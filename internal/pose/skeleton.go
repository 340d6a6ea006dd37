package pose

import "strings"

// Landmark names follow the MediaPipe pose model, lowercased.
const (
	LandmarkLeftShoulder  = "left_shoulder"
	LandmarkRightShoulder = "right_shoulder"
	LandmarkLeftElbow     = "left_elbow"
	LandmarkRightElbow    = "right_elbow"
	LandmarkLeftWrist     = "left_wrist"
	LandmarkRightWrist    = "right_wrist"
	LandmarkLeftHip       = "left_hip"
	LandmarkRightHip      = "right_hip"
	LandmarkLeftKnee      = "left_knee"
	LandmarkRightKnee     = "right_knee"
	LandmarkLeftAnkle     = "left_ankle"
	LandmarkRightAnkle    = "right_ankle"
)

// Landmark is a detected body point with the detector's visibility estimate (0-1).
type Landmark struct {
	Point2D
	Visibility float64 `json:"visibility"`
}

// Skeleton is one detected body, keyed by landmark name.
type Skeleton map[string]Landmark

// jointDefinition names the three landmarks forming a joint angle; Vertex is the middle one.
type jointDefinition struct {
	Joint        Joint
	A, Vertex, C string
}

// jointDefinitions derive the shoulder from hip-shoulder-elbow, the elbow from
// shoulder-elbow-wrist, the hip from shoulder-hip-knee and the knee from hip-knee-ankle.
var jointDefinitions = [8]jointDefinition{
	{LeftShoulder, LandmarkLeftHip, LandmarkLeftShoulder, LandmarkLeftElbow},
	{LeftElbow, LandmarkLeftShoulder, LandmarkLeftElbow, LandmarkLeftWrist},
	{RightShoulder, LandmarkRightHip, LandmarkRightShoulder, LandmarkRightElbow},
	{RightElbow, LandmarkRightShoulder, LandmarkRightElbow, LandmarkRightWrist},
	{LeftHip, LandmarkLeftShoulder, LandmarkLeftHip, LandmarkLeftKnee},
	{LeftKnee, LandmarkLeftHip, LandmarkLeftKnee, LandmarkLeftAnkle},
	{RightHip, LandmarkRightShoulder, LandmarkRightHip, LandmarkRightKnee},
	{RightKnee, LandmarkRightHip, LandmarkRightKnee, LandmarkRightAnkle},
}

// Angles computes the joint angles of the skeleton. A joint is left out when any of
// its three landmarks is missing or less visible than minVisibility.
func (s Skeleton) Angles(minVisibility float64) JointAngleSet {
	angles := make(JointAngleSet, len(jointDefinitions))
	for _, def := range jointDefinitions {
		a, ok := s.visible(def.A, minVisibility)
		if !ok {
			continue
		}
		b, ok := s.visible(def.Vertex, minVisibility)
		if !ok {
			continue
		}
		c, ok := s.visible(def.C, minVisibility)
		if !ok {
			continue
		}
		angles[def.Joint] = Angle(a, b, c)
	}
	return angles
}

func (s Skeleton) visible(name string, minVisibility float64) (Point2D, bool) {
	lm, ok := s[name]
	if !ok || lm.Visibility < minVisibility {
		return Point2D{}, false
	}
	return lm.Point2D, true
}

// Mirrored returns a copy with left and right landmarks swapped. Use it when the
// frame was flipped for a selfie view, so the user's left side is scored as left.
func (s Skeleton) Mirrored() Skeleton {
	out := make(Skeleton, len(s))
	for name, lm := range s {
		out[swapSide(name)] = lm
	}
	return out
}

func swapSide(name string) string {
	switch {
	case strings.HasPrefix(name, "left_"):
		return "right_" + strings.TrimPrefix(name, "left_")
	case strings.HasPrefix(name, "right_"):
		return "left_" + strings.TrimPrefix(name, "right_")
	default:
		return name
	}
}
