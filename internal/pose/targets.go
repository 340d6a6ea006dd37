package pose

// ID identifies a reference pose. Values match the pose numbers used by the web client.
type ID int

const (
	DownwardDog ID = 0
	Tree        ID = 1
	Warrior1    ID = 2
	Warrior2    ID = 3
)

// Target is the reference angle for every scored joint of a pose.
type Target JointAngleSet

// Reference describes a pose in the reference table.
type Reference struct {
	ID     ID     `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	Target Target `json:"angles" yaml:"angles"`
}

// Reference angles were measured from the pose demonstration images.
var (
	downwardDogTarget = Target{
		LeftShoulder:  104.5,
		LeftElbow:     112.4,
		RightShoulder: 117.8,
		RightElbow:    162.7,
		LeftHip:       102.3,
		LeftKnee:      164.1,
		RightHip:      29.3,
		RightKnee:     163.6,
	}
	treeTarget = Target{
		LeftShoulder:  99.5,
		LeftElbow:     171.9,
		RightShoulder: 87.9,
		RightElbow:    179.4,
		LeftHip:       167.1,
		LeftKnee:      167.7,
		RightHip:      114.2,
		RightKnee:     57.3,
	}
	warrior1Target = Target{
		LeftShoulder:  140.1,
		LeftElbow:     169.6,
		RightShoulder: 151.3,
		RightElbow:    178.7,
		LeftHip:       146.7,
		LeftKnee:      115.2,
		RightHip:      107.0,
		RightKnee:     52.9,
	}
	warrior2Target = Target{
		LeftShoulder:  71.4,
		LeftElbow:     177.3,
		RightShoulder: 104.4,
		RightElbow:    176.5,
		LeftHip:       148.8,
		LeftKnee:      166.5,
		RightHip:      125.5,
		RightKnee:     138.4,
	}
)

// PoseCount is the number of poses in the reference table.
const PoseCount = 4

// Valid reports whether id names a pose in the reference table.
func (id ID) Valid() bool {
	_, ok := Lookup(id)
	return ok
}

// String returns the display name of the pose.
func (id ID) String() string {
	switch id {
	case DownwardDog:
		return "Downward Dog"
	case Tree:
		return "Tree Pose"
	case Warrior1:
		return "Warrior 1"
	case Warrior2:
		return "Warrior 2"
	default:
		return "Unknown"
	}
}

// Lookup returns the target angles for a pose. The second result is false for
// identifiers outside the reference table.
func Lookup(id ID) (Target, bool) {
	switch id {
	case DownwardDog:
		return downwardDogTarget, true
	case Tree:
		return treeTarget, true
	case Warrior1:
		return warrior1Target, true
	case Warrior2:
		return warrior2Target, true
	default:
		return nil, false
	}
}

// All returns the reference table in identifier order.
// The returned targets are copies and may be modified by the caller.
func All() []Reference {
	refs := make([]Reference, 0, PoseCount)
	for id := ID(0); id < PoseCount; id++ {
		target, _ := Lookup(id)
		refs = append(refs, Reference{ID: id, Name: id.String(), Target: target.clone()})
	}
	return refs
}

func (t Target) clone() Target {
	out := make(Target, len(t))
	for j, a := range t {
		out[j] = a
	}
	return out
}
