package skyscatter

// Channel indices for readability.
const (
	ChR = 0
	ChG = 1
	ChB = 2
	ChA = 3
)

// Run defaults, used when neither the config file nor the command line sets a value.
const (
	Detail    = 3
	MinDetail = 0
	MaxDetail = 5
	Orders    = 4 // scattering orders, 1 is single scattering only
	OutputDir = "assets/tables/atmospheric-scattering"
	Prefix    = "earth"
	Gamma     = 0.75
	PNGMinW   = 256 // previews narrower than this are upscaled
)

// Fixed quadrature sample counts.
const (
	OpticalDepthSamples       = 500
	SingleScatteringSamples   = 50
	MultipleScatteringSamples = 50
	DensityPolarSamples       = 16 // azimuthal count is twice this
	IrradianceSamples         = 32 // half polar over the hemisphere, twice azimuthal
)

// Base (detail 0) table resolutions; every axis is scaled by 2^detail.
const (
	BaseTransmittanceMu = 32
	BaseTransmittanceR  = 8
	BaseScatteringR     = 4
	BaseScatteringMu    = 16
	BaseScatteringMuS   = 4
	BaseScatteringNu    = 1
	BaseIrradianceMuS   = 8
	BaseIrradianceR     = 2
)
