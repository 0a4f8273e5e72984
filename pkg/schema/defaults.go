package schema

import "github.com/carbonfield/emissions-engine/pkg/models"

// DefaultFormSchema is the built-in fallback used when the form schema
// document cannot be loaded.
func DefaultFormSchema() *models.FormSchema {
	return &models.FormSchema{
		Title:       "Carbon Footprint Equipment Logger",
		Description: "Track and monitor the carbon footprint of various machinery and equipment",
		Sections: []models.Section{
			{
				Name:        "Equipment Information",
				Description: "Basic information about the equipment",
				Fields: []models.Field{
					{
						Name:     "equipmentType",
						Label:    "Equipment Type",
						Type:     models.FieldTypeSelect,
						Required: true,
						Options: []models.Option{
							{Value: "excavator", Label: "Excavator"},
							{Value: "crane", Label: "Crane"},
							{Value: "forklift", Label: "Forklift"},
							{Value: "truck", Label: "Truck"},
							{Value: "generator", Label: "Generator"},
							{Value: "other", Label: "Other"},
						},
					},
					{
						Name:        "equipmentModel",
						Label:       "Equipment Model/Brand",
						Type:        models.FieldTypeText,
						Required:    true,
						Placeholder: "e.g., Caterpillar 320D, Volvo EC140D",
					},
					{
						Name:        "equipmentId",
						Label:       "Equipment ID/Serial Number",
						Type:        models.FieldTypeText,
						Required:    true,
						Placeholder: "Unique identifier for tracking",
					},
				},
			},
			{
				Name:        "Usage Information",
				Description: "Details about equipment usage",
				Fields: []models.Field{
					{
						Name:     "operationDate",
						Label:    "Operation Date",
						Type:     models.FieldTypeDate,
						Required: true,
					},
					{
						Name:        "operationHours",
						Label:       "Hours of Operation",
						Type:        models.FieldTypeNumber,
						Required:    true,
						Min:         floatPtr(0),
						Max:         floatPtr(24),
						Step:        floatPtr(0.1),
						Placeholder: "Hours worked during the day",
					},
					{
						Name:     "fuelType",
						Label:    "Fuel Type",
						Type:     models.FieldTypeSelect,
						Required: true,
						Options: []models.Option{
							{Value: "diesel", Label: "Diesel"},
							{Value: "gasoline", Label: "Gasoline"},
							{Value: "electric", Label: "Electric"},
							{Value: "hybrid", Label: "Hybrid"},
						},
					},
					{
						Name:        "fuelConsumption",
						Label:       "Fuel Consumption (Liters)",
						Type:        models.FieldTypeNumber,
						Required:    true,
						Min:         floatPtr(0),
						Step:        floatPtr(0.1),
						Placeholder: "Liters consumed",
						ConditionalShow: &models.ConditionalShow{
							Field:  "fuelType",
							Values: []string{"diesel", "gasoline"},
						},
					},
					{
						Name:        "electricityConsumption",
						Label:       "Electricity Consumption (kWh)",
						Type:        models.FieldTypeNumber,
						Required:    true,
						Min:         floatPtr(0),
						Step:        floatPtr(0.1),
						Placeholder: "Kilowatt-hours consumed",
						ConditionalShow: &models.ConditionalShow{
							Field:  "fuelType",
							Values: []string{"electric", "hybrid"},
						},
					},
					{
						Name:     "operatingConditions",
						Label:    "Operating Conditions",
						Type:     models.FieldTypeSelect,
						Required: true,
						Options: []models.Option{
							{Value: "light", Label: "Light"},
							{Value: "normal", Label: "Normal"},
							{Value: "heavy", Label: "Heavy"},
							{Value: "extreme", Label: "Extreme"},
						},
					},
					{
						Name:        "notes",
						Label:       "Notes",
						Type:        models.FieldTypeTextarea,
						Placeholder: "Optional remarks about this operation",
					},
				},
			},
		},
		Calculations: models.CalculationSchema{
			EmissionFactors: map[string]float64{
				"diesel":   2.68,
				"gasoline": 2.31,
				"electric": 0.5,
				"hybrid":   1.0,
			},
			ConditionMultipliers: map[string]float64{
				"light":   0.8,
				"normal":  1.0,
				"heavy":   1.3,
				"extreme": 1.6,
			},
		},
	}
}

// DefaultIdentificationSchema is the built-in fallback used when the
// identification schema document cannot be loaded.
func DefaultIdentificationSchema() *models.IdentificationSchema {
	return &models.IdentificationSchema{
		Title:       "Project Identification",
		Description: "Please provide the following information to identify your project and reporting period",
		Fields: []models.Field{
			{
				Name:         "company",
				Label:        "Company Name",
				Type:         models.FieldTypeText,
				Required:     true,
				Placeholder:  "Enter your company name",
				SavePrevious: true,
			},
			{
				Name:         "reporter",
				Label:        "Reporter Name",
				Type:         models.FieldTypeText,
				Required:     true,
				Placeholder:  "Enter reporter's full name",
				SavePrevious: true,
			},
			{
				Name:         "project",
				Label:        "Project Name",
				Type:         models.FieldTypeText,
				Required:     true,
				Placeholder:  "Enter project name or identifier",
				SavePrevious: true,
			},
			{
				Name:     "reportingMonth",
				Label:    "Reporting Month",
				Type:     models.FieldTypeSelect,
				Required: true,
				Options: []models.Option{
					{Value: "01", Label: "January"},
					{Value: "02", Label: "February"},
					{Value: "03", Label: "March"},
					{Value: "04", Label: "April"},
					{Value: "05", Label: "May"},
					{Value: "06", Label: "June"},
					{Value: "07", Label: "July"},
					{Value: "08", Label: "August"},
					{Value: "09", Label: "September"},
					{Value: "10", Label: "October"},
					{Value: "11", Label: "November"},
					{Value: "12", Label: "December"},
				},
			},
			{
				Name:     "reportingYear",
				Label:    "Reporting Year",
				Type:     models.FieldTypeSelect,
				Required: true,
				Options: []models.Option{
					{Value: "2024", Label: "2024"},
					{Value: "2025", Label: "2025"},
					{Value: "2026", Label: "2026"},
				},
			},
		},
	}
}

func floatPtr(v float64) *float64 {
	return &v
}
