// Package cuba defines the controlled vocabulary of attribute keys carried by
// simulation containers, the keyword descriptor table that types them, and
// the Registry that derives storage kinds and default values from it.
//
// The Registry is a pure function of its keyword table. It is built once and
// is safe for concurrent reads:
//
//	reg := cuba.NewRegistry(cuba.DefaultKeywords(), logger)
//	for _, key := range reg.SupportedKeys().Sorted() {
//	    vt := reg.ValueTypes()[key]
//	    fmt.Println(key, vt.Kind, vt.Shape)
//	}
package cuba

import (
	"github.com/ajitpratap0/cudsviz/pkg/vizerrors"
)

// Key is an attribute key of the closed CUBA enumeration.
type Key uint16

// Keys in declaration order. The zero Key is invalid.
const (
	KeyInvalid Key = iota
	UUID
	Name
	Description
	Label
	MaterialID
	MaterialType
	ChemicalSpecie
	Status
	Position
	Direction
	Velocity
	Momentum
	Acceleration
	Displacement
	AngularVelocity
	AngularAcceleration
	Force
	Torque
	Quaternion
	Mass
	Volume
	Density
	Radius
	Diameter
	Size
	Charge
	ElectricField
	MagneticField
	DipoleMoment
	Energy
	PotentialEnergy
	KineticEnergy
	FreeEnergy
	HeatConductivity
	FrictionCoefficient
	Length
	Area
	DynamicViscosity
	KinematicViscosity
	DiffusionCoefficient
	ProbabilityCoefficient
	YoungModulus
	PoissonRatio
	Concentration
	Phase
	NumberOfPoints
	NumberOfCells
	CoordinationNumber
	BondLabel
	BondType
	NodeIndex
	LatticeVectors
	StressTensor
	StrainTensor
	Pressure
	Temperature
	PiezoelectricTensor
	keyCount
)

var keyNames = [keyCount]string{
	KeyInvalid:             "INVALID",
	UUID:                   "UUID",
	Name:                   "NAME",
	Description:            "DESCRIPTION",
	Label:                  "LABEL",
	MaterialID:             "MATERIAL_ID",
	MaterialType:           "MATERIAL_TYPE",
	ChemicalSpecie:         "CHEMICAL_SPECIE",
	Status:                 "STATUS",
	Position:               "POSITION",
	Direction:              "DIRECTION",
	Velocity:               "VELOCITY",
	Momentum:               "MOMENTUM",
	Acceleration:           "ACCELERATION",
	Displacement:           "DISPLACEMENT",
	AngularVelocity:        "ANGULAR_VELOCITY",
	AngularAcceleration:    "ANGULAR_ACCELERATION",
	Force:                  "FORCE",
	Torque:                 "TORQUE",
	Quaternion:             "QUATERNION",
	Mass:                   "MASS",
	Volume:                 "VOLUME",
	Density:                "DENSITY",
	Radius:                 "RADIUS",
	Diameter:               "DIAMETER",
	Size:                   "SIZE",
	Charge:                 "CHARGE",
	ElectricField:          "ELECTRIC_FIELD",
	MagneticField:          "MAGNETIC_FIELD",
	DipoleMoment:           "DIPOLE_MOMENT",
	Energy:                 "ENERGY",
	PotentialEnergy:        "POTENTIAL_ENERGY",
	KineticEnergy:          "KINETIC_ENERGY",
	FreeEnergy:             "FREE_ENERGY",
	HeatConductivity:       "HEAT_CONDUCTIVITY",
	FrictionCoefficient:    "FRICTION_COEFFICIENT",
	Length:                 "LENGTH",
	Area:                   "AREA",
	DynamicViscosity:       "DYNAMIC_VISCOSITY",
	KinematicViscosity:     "KINEMATIC_VISCOSITY",
	DiffusionCoefficient:   "DIFFUSION_COEFFICIENT",
	ProbabilityCoefficient: "PROBABILITY_COEFFICIENT",
	YoungModulus:           "YOUNG_MODULUS",
	PoissonRatio:           "POISSON_RATIO",
	Concentration:          "CONCENTRATION",
	Phase:                  "PHASE",
	NumberOfPoints:         "NUMBER_OF_POINTS",
	NumberOfCells:          "NUMBER_OF_CELLS",
	CoordinationNumber:     "COORDINATION_NUMBER",
	BondLabel:              "BOND_LABEL",
	BondType:               "BOND_TYPE",
	NodeIndex:              "NODE_INDEX",
	LatticeVectors:         "LATTICE_VECTORS",
	StressTensor:           "STRESS_TENSOR",
	StrainTensor:           "STRAIN_TENSOR",
	Pressure:               "PRESSURE",
	Temperature:            "TEMPERATURE",
	PiezoelectricTensor:    "PIEZOELECTRIC_TENSOR",
}

var keysByName = func() map[string]Key {
	m := make(map[string]Key, keyCount)
	for k := Key(1); k < keyCount; k++ {
		m[keyNames[k]] = k
	}
	return m
}()

// String returns the upper-snake name of the key.
func (k Key) String() string {
	if k < keyCount {
		return keyNames[k]
	}
	return "INVALID"
}

// Valid reports whether k is a member of the enumeration.
func (k Key) Valid() bool {
	return k > KeyInvalid && k < keyCount
}

// MarshalText implements encoding.TextMarshaler.
func (k Key) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, vizerrors.New(vizerrors.ErrorTypeValidation, "invalid CUBA key").
			WithDetail("key", uint16(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Key) UnmarshalText(text []byte) error {
	parsed, err := ParseKey(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseKey returns the key with the given upper-snake name.
func ParseKey(name string) (Key, error) {
	if k, ok := keysByName[name]; ok {
		return k, nil
	}
	return KeyInvalid, vizerrors.New(vizerrors.ErrorTypeValidation, "unknown CUBA key").
		WithDetail("key", name)
}

// ParseKeys parses every name, failing on the first unknown one.
func ParseKeys(names []string) ([]Key, error) {
	keys := make([]Key, 0, len(names))
	for _, name := range names {
		k, err := ParseKey(name)
		if err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, nil
}

// AllKeys returns the full enumeration in declaration order.
func AllKeys() []Key {
	keys := make([]Key, 0, keyCount-1)
	for k := Key(1); k < keyCount; k++ {
		keys = append(keys, k)
	}
	return keys
}
