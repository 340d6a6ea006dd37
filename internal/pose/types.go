// Package pose derives joint angles from detected skeletons and grades them
// against the reference pose table.
package pose

// Point2D is a landmark position in normalized image coordinates.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Joint names one of the eight scored joint angles.
type Joint string

const (
	LeftShoulder  Joint = "left_shoulder"
	LeftElbow     Joint = "left_elbow"
	RightShoulder Joint = "right_shoulder"
	RightElbow    Joint = "right_elbow"
	LeftHip       Joint = "left_hip"
	LeftKnee      Joint = "left_knee"
	RightHip      Joint = "right_hip"
	RightKnee     Joint = "right_knee"
)

// Joints lists the scored joints in reference table order.
var Joints = [8]Joint{
	LeftShoulder, LeftElbow, RightShoulder, RightElbow,
	LeftHip, LeftKnee, RightHip, RightKnee,
}

// Valid reports whether j is one of the scored joints.
func (j Joint) Valid() bool {
	for _, known := range Joints {
		if j == known {
			return true
		}
	}
	return false
}

// JointAngleSet maps a joint to its angle in degrees, range [0,180].
// Joints missing from the map were not measured for that frame.
type JointAngleSet map[Joint]float64

// Grade is the 1-4 match classification of a frame.
type Grade int

const (
	Poor    Grade = 1
	Okay    Grade = 2
	Great   Grade = 3
	Perfect Grade = 4
)

// Valid reports whether g is one of the four defined grades.
func (g Grade) Valid() bool {
	return g >= Poor && g <= Perfect
}

func (g Grade) String() string {
	switch g {
	case Poor:
		return "poor"
	case Okay:
		return "okay"
	case Great:
		return "great"
	case Perfect:
		return "perfect"
	default:
		return "unknown"
	}
}

// Label is the text shown to the user for a grade.
func (g Grade) Label() string {
	switch g {
	case Poor:
		return "X"
	case Okay:
		return "Okay"
	case Great:
		return "Great!"
	case Perfect:
		return "PERFECT!"
	default:
		return ""
	}
}
