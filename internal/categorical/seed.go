package categorical

// Seed similarity tables. Values are curated similarity percentages;
// keep these stable, downstream scoring expectations depend on them.

var profileTypeSeed = map[[2]string]float64{
	// Distributors and related
	{"Distributor", "Wholesaler"}: 85,
	{"Distributor", "Retailer"}:   60,
	{"Distributor", "Reseller"}:   80,
	{"Distributor", "Agent"}:      70,
	{"Distributor", "Broker"}:     65,
	{"Distributor", "Importer"}:   75,
	{"Distributor", "Exporter"}:   75,

	// Wholesalers and related
	{"Wholesaler", "Retailer"}: 60,
	{"Wholesaler", "Reseller"}: 75,
	{"Wholesaler", "Importer"}: 70,
	{"Wholesaler", "Exporter"}: 70,

	// Manufacturers and related
	{"Manufacturer", "Producer"}:    95,
	{"Manufacturer", "Distributor"}: 50,
	{"Manufacturer", "Wholesaler"}:  45,
	{"Manufacturer", "OEM"}:         85,
	{"Manufacturer", "Supplier"}:    70,

	// Service providers
	{"Consultant", "Advisor"}:           90,
	{"Consultant", "Service Provider"}:  70,
	{"Integrator", "Installer"}:         80,
	{"Integrator", "System Integrator"}: 95,

	// Retailers
	{"Retailer", "Reseller"}:   85,
	{"Retailer", "E-commerce"}: 80,
	{"Retailer", "Store"}:      90,

	// Very different types
	{"Manufacturer", "Retailer"}:   30,
	{"Manufacturer", "Consultant"}: 20,
	{"Distributor", "Consultant"}:  25,
	{"Wholesaler", "Consultant"}:   25,
}

var marketSegmentSeed = map[[2]string]float64{
	// Adjacent segments
	{"enterprise", "mid-market"}: 70,
	{"mid-market", "smb"}:        70,
	{"smb", "startup"}:           75,

	// Distant segments
	{"enterprise", "smb"}:        40,
	{"enterprise", "startup"}:    30,
	{"mid-market", "startup"}:    50,

	// B2B vs B2C
	{"b2b", "b2c"}:   40,
	{"b2b", "b2b2c"}: 70,
	{"b2c", "b2b2c"}: 70,

	// Industry verticals
	{"technology", "software"}: 85,
	{"technology", "hardware"}: 75,
	{"software", "saas"}:       90,
	{"retail", "e-commerce"}:   80,
	{"healthcare", "medical"}:  85,
	{"finance", "banking"}:     85,
	{"finance", "insurance"}:   75,
}
