package drug

import (
	"time"

	"github.com/google/uuid"
)

const (
	FormPowder   = "Powder"
	FormSolution = "Solution"

	ContainerVial    = "Vial"
	ContainerAmpoule = "Ampoule"
)

// Drug is one catalog entry of the intravenous preparation protocols.
// Optional numeric fields are pointers so "not specified" survives the
// round trip to storage instead of collapsing to zero.
type Drug struct {
	ID          uuid.UUID `db:"id" json:"id"`
	TradeName   string    `db:"trade_name" json:"trade_name"`
	GenericName string    `db:"generic_name" json:"generic_name"`
	ArabicName  string    `db:"arabic_name" json:"arabic_name"`
	Form        string    `db:"form" json:"form"`
	Container   string    `db:"container" json:"container"`

	AmountMg           float64  `db:"amount_mg" json:"amount_mg"`
	AmountVolumeMl     *float64 `db:"amount_volume_ml" json:"amount_volume_ml"`
	ConcentrationMgMl  *float64 `db:"concentration_mg_ml" json:"concentration_mg_ml"`

	ReconVolumeMl            *float64 `db:"reconstitution_volume_ml" json:"reconstitution_volume_ml"`
	ReconConcentrationMgMl   *float64 `db:"reconstitution_concentration_mg_ml" json:"reconstitution_concentration_mg_ml"`
	ReconDiluentNS           bool     `db:"reconstitution_diluent_ns" json:"reconstitution_diluent_ns"`
	ReconDiluentD5W          bool     `db:"reconstitution_diluent_d5w" json:"reconstitution_diluent_d5w"`
	ReconDiluentSWI          bool     `db:"reconstitution_diluent_swi" json:"reconstitution_diluent_swi"`
	ReconStabilityRoomHours  *float64 `db:"reconstitution_stability_room_hours" json:"reconstitution_stability_room_hours"`
	ReconStabilityFridgeDays *float64 `db:"reconstitution_stability_refrigeration_days" json:"reconstitution_stability_refrigeration_days"`

	InitialDilutionVolumeMl          *float64 `db:"initial_dilution_volume_ml" json:"initial_dilution_volume_ml"`
	InitialDilutionConcentrationMgMl *float64 `db:"initial_dilution_concentration_mg_ml" json:"initial_dilution_concentration_mg_ml"`

	FDEachMlUpTo          *float64 `db:"fd_each_ml_up_to" json:"fd_each_ml_up_to"`
	FDConcentrationMgMl   *float64 `db:"fd_concentration_mg_ml" json:"fd_concentration_mg_ml"`
	FDFREachMlUpTo        *float64 `db:"fdfr_each_ml_up_to" json:"fdfr_each_ml_up_to"`
	FDFRConcentrationMgMl *float64 `db:"fdfr_concentration_mg_ml" json:"fdfr_concentration_mg_ml"`
	FDDiluentNS           bool     `db:"fd_diluent_ns" json:"fd_diluent_ns"`
	FDDiluentD5W          bool     `db:"fd_diluent_d5w" json:"fd_diluent_d5w"`
	FDStabilityRoomHours  *float64 `db:"fd_stability_room_hours" json:"fd_stability_room_hours"`
	FDStabilityFridgeDays *float64 `db:"fd_stability_refrigeration_days" json:"fd_stability_refrigeration_days"`

	InfusionTimeMin *int `db:"infusion_time_min" json:"infusion_time_min"`

	IsPhotosensitive bool `db:"is_photosensitive" json:"is_photosensitive"`
	IsBiohazard      bool `db:"is_biohazard" json:"is_biohazard"`

	MinDoseMgKgDose *float64 `db:"min_dose_mg_kg_dose" json:"min_dose_mg_kg_dose"`
	MaxDoseMgKgDose *float64 `db:"max_dose_mg_kg_dose" json:"max_dose_mg_kg_dose"`
	MaxDoseMgDose   *float64 `db:"max_dose_mg_dose" json:"max_dose_mg_dose"`
	MaxDoseMgDay    *float64 `db:"max_dose_mg_day" json:"max_dose_mg_day"`

	ObeseDosageAdjustment string `db:"obese_patient_dosage_adjustment" json:"obese_patient_dosage_adjustment"`

	InstructionsText string   `db:"instructions_text" json:"instructions_text"`
	TargetVolumeMl   *float64 `db:"target_volume_ml" json:"target_volume_ml"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
