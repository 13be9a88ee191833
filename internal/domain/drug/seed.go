package drug

import (
	"context"
	"fmt"
)

func f(v float64) *float64 { return &v }
func i(v int) *int         { return &v }

// seedCatalog is the starter protocol set for a fresh installation. It is
// reference data, not a formulary; pharmacies extend it through the API.
var seedCatalog = []Drug{
	{
		TradeName: "Rocephin", GenericName: "Ceftriaxone", ArabicName: "روسفين",
		Form: FormPowder, Container: ContainerVial, AmountMg: 1000,
		ReconVolumeMl: f(9.6), ReconConcentrationMgMl: f(100),
		ReconDiluentNS: true, ReconDiluentD5W: true, ReconDiluentSWI: true,
		ReconStabilityRoomHours: f(6), ReconStabilityFridgeDays: f(2),
		FDEachMlUpTo: f(10), FDConcentrationMgMl: f(40),
		FDDiluentNS: true, FDDiluentD5W: true,
		InfusionTimeMin: i(30),
		MinDoseMgKgDose: f(50), MaxDoseMgKgDose: f(100), MaxDoseMgDay: f(4000),
	},
	{
		TradeName: "Vancocin", GenericName: "Vancomycin", ArabicName: "فانكوسين",
		Form: FormPowder, Container: ContainerVial, AmountMg: 500,
		ReconVolumeMl: f(10), ReconConcentrationMgMl: f(50),
		ReconDiluentSWI:         true,
		ReconStabilityRoomHours: f(24), ReconStabilityFridgeDays: f(14),
		FDEachMlUpTo: f(100), FDConcentrationMgMl: f(5),
		FDDiluentNS: true, FDDiluentD5W: true,
		InfusionTimeMin: i(60),
		MinDoseMgKgDose: f(10), MaxDoseMgKgDose: f(15), MaxDoseMgDay: f(2000),
	},
	{
		TradeName: "Meronem", GenericName: "Meropenem", ArabicName: "ميرونيم",
		Form: FormPowder, Container: ContainerVial, AmountMg: 500,
		ReconVolumeMl: f(10), ReconConcentrationMgMl: f(50),
		ReconDiluentNS: true, ReconDiluentSWI: true,
		ReconStabilityRoomHours: f(3), ReconStabilityFridgeDays: f(1),
		FDEachMlUpTo: f(20), FDConcentrationMgMl: f(25),
		FDDiluentNS:     true,
		InfusionTimeMin: i(30),
		MinDoseMgKgDose: f(10), MaxDoseMgKgDose: f(40), MaxDoseMgDay: f(6000),
	},
	{
		TradeName: "Zovirax", GenericName: "Aciclovir", ArabicName: "زوفيراكس",
		Form: FormPowder, Container: ContainerVial, AmountMg: 250,
		ReconVolumeMl: f(10), ReconConcentrationMgMl: f(25),
		ReconDiluentNS: true, ReconDiluentSWI: true,
		ReconStabilityRoomHours: f(12),
		FDEachMlUpTo:            f(50), FDConcentrationMgMl: f(5),
		FDDiluentNS: true, FDDiluentD5W: true,
		InfusionTimeMin:  i(60),
		IsPhotosensitive: true,
		MinDoseMgKgDose:  f(5), MaxDoseMgKgDose: f(20),
	},
	{
		TradeName: "Zofran", GenericName: "Ondansetron", ArabicName: "زوفران",
		Form: FormSolution, Container: ContainerAmpoule, AmountMg: 8,
		AmountVolumeMl: f(4), ConcentrationMgMl: f(2),
		FDEachMlUpTo: f(50), FDConcentrationMgMl: f(0.16),
		FDDiluentNS: true, FDDiluentD5W: true,
		InfusionTimeMin: i(15),
		MinDoseMgKgDose: f(0.1), MaxDoseMgKgDose: f(0.15), MaxDoseMgDose: f(8), MaxDoseMgDay: f(24),
	},
	{
		TradeName: "Endoxan", GenericName: "Cyclophosphamide", ArabicName: "إندوكسان",
		Form: FormPowder, Container: ContainerVial, AmountMg: 1000,
		ReconVolumeMl: f(50), ReconConcentrationMgMl: f(20),
		ReconDiluentNS: true, ReconDiluentSWI: true,
		ReconStabilityRoomHours: f(24), ReconStabilityFridgeDays: f(6),
		FDEachMlUpTo: f(250), FDConcentrationMgMl: f(4),
		FDDiluentNS: true, FDDiluentD5W: true,
		InfusionTimeMin: i(60),
		IsBiohazard:     true,
		MaxDoseMgDay:    f(1800),
		ObeseDosageAdjustment: "Use adjusted body weight for BSA-based dosing above BMI 30.",
	},
}

// SeedIfEmpty loads the starter catalog on first run. An existing catalog,
// even a partial one, is never touched.
func (s *Service) SeedIfEmpty(ctx context.Context) (int, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count catalog: %w", err)
	}
	if n > 0 {
		return 0, nil
	}
	for i := range seedCatalog {
		d := seedCatalog[i]
		if err := s.repo.Create(ctx, &d); err != nil {
			return 0, fmt.Errorf("seed %s: %w", d.TradeName, err)
		}
	}
	return len(seedCatalog), nil
}
