package synthesis

// selectCoarseInitializer maps a CoarseInitializerKind (spec.md §6) to its
// concrete strategy, configured from cfg.
func selectCoarseInitializer(kind CoarseInitializerKind, cfg Config) Initializer {
	switch kind {
	case Random:
		return RandomInitializer{}
	case Appearance:
		return AppearanceInitializer{K: cfg.AppearanceCandidates}
	case Erosion:
		return ErosionInitializer{FinalizeCandidates: cfg.AppearanceCandidates}
	case RandomErosion:
		return ErosionInitializer{FinalizeCandidates: cfg.AppearanceCandidates}
	case Contour:
		return ContourInitializer{FinalizeCandidates: cfg.AppearanceCandidates}
	case PatchFullArea1:
		return PatchMatchInitializer{Candidates: 200}
	case PatchFullArea2:
		return PatchMatchInitializer{Candidates: 400}
	case PatchSubRegion1:
		return PatchMatchInitializer{WindowRadius: cfg.PatchMatchWindowRadius, Candidates: 200}
	case PatchSubRegion2:
		return PatchMatchInitializer{WindowRadius: cfg.PatchMatchWindowRadius, Candidates: 400}
	case PatchFullAreaHeuristic1:
		return PatchMatchInitializer{Heuristic: true, Candidates: 200}
	case PatchFullAreaHeuristic2:
		return PatchMatchInitializer{Heuristic: true, Candidates: 400}
	default:
		return RandomInitializer{}
	}
}
