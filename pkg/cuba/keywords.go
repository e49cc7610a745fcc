package cuba

// DType is the storage data type named by a keyword descriptor.
type DType int

const (
	// DTypeNone marks keys that carry no storable value (identifiers, links).
	DTypeNone DType = iota
	DTypeFloat
	DTypeInt
	DTypeString
)

func (d DType) String() string {
	switch d {
	case DTypeFloat:
		return "float"
	case DTypeInt:
		return "int"
	case DTypeString:
		return "string"
	default:
		return "none"
	}
}

// Descriptor describes the value stored under a key.
type Descriptor struct {
	Key         Key
	DType       DType
	Shape       []int
	Description string
}

// Keywords is the keyword descriptor table. Keys without an entry are
// unsupported.
type Keywords map[Key]Descriptor

// Clone returns a deep copy of the table.
func (kw Keywords) Clone() Keywords {
	out := make(Keywords, len(kw))
	for k, d := range kw {
		d.Shape = append([]int(nil), d.Shape...)
		out[k] = d
	}
	return out
}

type keyword struct {
	key   Key
	dtype DType
	shape []int
	desc  string
}

var builtinKeywords = []keyword{
	{UUID, DTypeNone, []int{1}, "Universal unique identifier"},
	{Name, DTypeString, []int{20}, "Name of the entity"},
	{Description, DTypeString, []int{80}, "Free text description"},
	{Label, DTypeInt, []int{1}, "Integer label"},
	{MaterialID, DTypeInt, []int{1}, "Material identifier"},
	{MaterialType, DTypeInt, []int{1}, "Material type index"},
	{ChemicalSpecie, DTypeString, []int{20}, "Chemical specie symbol"},
	{Status, DTypeInt, []int{1}, "Status flag"},
	{Position, DTypeFloat, []int{3}, "Position vector"},
	{Direction, DTypeFloat, []int{3}, "Unit direction vector"},
	{Velocity, DTypeFloat, []int{3}, "Velocity vector"},
	{Momentum, DTypeFloat, []int{3}, "Linear momentum"},
	{Acceleration, DTypeFloat, []int{3}, "Acceleration vector"},
	{Displacement, DTypeFloat, []int{3}, "Displacement vector"},
	{AngularVelocity, DTypeFloat, []int{3}, "Angular velocity"},
	{AngularAcceleration, DTypeFloat, []int{3}, "Angular acceleration"},
	{Force, DTypeFloat, []int{3}, "Force vector"},
	{Torque, DTypeFloat, []int{3}, "Torque vector"},
	{Quaternion, DTypeFloat, []int{4}, "Orientation quaternion"},
	{Mass, DTypeFloat, []int{1}, "Mass"},
	{Volume, DTypeFloat, []int{1}, "Volume"},
	{Density, DTypeFloat, []int{1}, "Mass density"},
	{Radius, DTypeFloat, []int{1}, "Radius"},
	{Diameter, DTypeFloat, []int{1}, "Diameter"},
	{Size, DTypeFloat, []int{1}, "Characteristic size"},
	{Charge, DTypeFloat, []int{1}, "Electric charge"},
	{ElectricField, DTypeFloat, []int{3}, "Electric field"},
	{MagneticField, DTypeFloat, []int{3}, "Magnetic field"},
	{DipoleMoment, DTypeFloat, []int{3}, "Electric dipole moment"},
	{Energy, DTypeFloat, []int{1}, "Energy"},
	{PotentialEnergy, DTypeFloat, []int{1}, "Potential energy"},
	{KineticEnergy, DTypeFloat, []int{1}, "Kinetic energy"},
	{FreeEnergy, DTypeFloat, []int{1}, "Free energy"},
	{HeatConductivity, DTypeFloat, []int{1}, "Heat conductivity"},
	{FrictionCoefficient, DTypeFloat, []int{1}, "Friction coefficient"},
	{Length, DTypeFloat, []int{1}, "Length"},
	{Area, DTypeFloat, []int{1}, "Area"},
	{DynamicViscosity, DTypeFloat, []int{1}, "Dynamic viscosity"},
	{KinematicViscosity, DTypeFloat, []int{1}, "Kinematic viscosity"},
	{DiffusionCoefficient, DTypeFloat, []int{1}, "Diffusion coefficient"},
	{ProbabilityCoefficient, DTypeFloat, []int{1}, "Probability coefficient"},
	{YoungModulus, DTypeFloat, []int{1}, "Young's modulus"},
	{PoissonRatio, DTypeFloat, []int{1}, "Poisson's ratio"},
	{Concentration, DTypeFloat, []int{1}, "Concentration"},
	{Phase, DTypeInt, []int{1}, "Phase index"},
	{NumberOfPoints, DTypeInt, []int{1}, "Number of points"},
	{NumberOfCells, DTypeInt, []int{1}, "Number of cells"},
	{CoordinationNumber, DTypeInt, []int{1}, "Coordination number"},
	{BondLabel, DTypeInt, []int{1}, "Bond label"},
	{BondType, DTypeInt, []int{1}, "Bond type"},
	{NodeIndex, DTypeInt, []int{3}, "Lattice node index"},
	{LatticeVectors, DTypeFloat, []int{3, 3}, "Lattice basis vectors"},
	{StressTensor, DTypeFloat, []int{3, 3}, "Stress tensor"},
	{StrainTensor, DTypeFloat, []int{3, 3}, "Strain tensor"},
	{Pressure, DTypeFloat, []int{1}, "Pressure"},
	{Temperature, DTypeFloat, []int{1}, "Temperature"},
	{PiezoelectricTensor, DTypeFloat, []int{3, 3, 3}, "Piezoelectric tensor"},
}

// DefaultKeywords returns a fresh copy of the built-in descriptor table.
func DefaultKeywords() Keywords {
	kw := make(Keywords, len(builtinKeywords))
	for _, e := range builtinKeywords {
		kw[e.key] = Descriptor{
			Key:         e.key,
			DType:       e.dtype,
			Shape:       append([]int(nil), e.shape...),
			Description: e.desc,
		}
	}
	return kw
}
