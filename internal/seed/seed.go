// Package seed holds the initial agency data used when nothing is stored yet.
package seed

import (
	"time"

	"inmo-backoffice/internal/domain"
)

func Config() domain.AgencyConfig {
	return domain.AgencyConfig{
		Name:         "Inmobiliaria Libertador",
		ThemeID:      "ocean",
		LogoText:     "InmoLibertador",
		ContactPhone: "5493434123456",
		Appearance:   domain.AppearanceSystem,
	}
}

func Tenants() []domain.Tenant {
	return []domain.Tenant{
		{ID: "t1", Name: "Mateo Gomez", Phone: "5493434111222"},
		{ID: "t2", Name: "Lucia Fernandez", Phone: "5493434333444", DebtAmount: 45000, DaysLate: 5},
		{
			ID: "t3", Name: "Carlos Rodriguez", Phone: "5493434555666", DebtAmount: 125000, DaysLate: 15,
			Guarantor: &domain.Guarantor{Name: "Roberto Rodriguez", Phone: "5493434777888"},
		},
		{ID: "t4", Name: "Sofia Martinez", Phone: "5493434999000"},
		{
			ID: "t5", Name: "Elena Paz", Phone: "5493434222333", DebtAmount: 98000, DaysLate: 12,
			Guarantor: &domain.Guarantor{Name: "Miguel Paz", Phone: "5493434444555"},
		},
	}
}

func rent(id, title string, price int64, address string, bedrooms int, image, desc string, featured bool) domain.Property {
	return domain.Property{
		ID: id, Title: title, Price: price, Address: address, Bedrooms: bedrooms,
		ImageURL: image, Description: desc, Featured: featured,
		Transaction: domain.TransactionForRent, Status: domain.AvailabilityAvailable,
	}
}

func sale(id, title string, price int64, address string, bedrooms int, image, desc string, featured bool) domain.Property {
	p := rent(id, title, price, address, bedrooms, image, desc, featured)
	p.Transaction = domain.TransactionForSale
	return p
}

func occupied(p domain.Property, tenantID, contractID string) domain.Property {
	p.Status = domain.AvailabilityOccupied
	p.TenantID = domain.StringPtr(tenantID)
	p.ContractID = domain.StringPtr(contractID)
	return p
}

const img = "https://images.unsplash.com/photo-"

func Properties() []domain.Property {
	return []domain.Property{
		occupied(rent("p1", "Monoambiente Estudiantil", 185000, "Calle Los Robles 450, Libertador", 1,
			img+"1522708323590-d24dbb6b0267", "Ideal para estudiantes que buscan cercanía a la universidad.", true), "t1", "c1"),
		rent("p2", "Depto 2 Dormitorios Premium", 320000, "Av. San Martín 1200, Libertador", 2,
			img+"1502672260266-1c1ef2d93688", "Luminoso con balcón terraza y vista abierta.", true),
		sale("p3", "Casa Familiar Centro", 45000000, "25 de Mayo 88, Libertador", 3,
			img+"1480074568708-e7b720bb3f09", "Casa amplia con patio, parrilla y cochera para dos autos.", false),
		rent("p4", "Loft Moderno UAP", 210000, "Belgrano 120, Libertador", 1,
			img+"1554995207-c18c203602cb", "Diseño industrial con techos altos.", true),
		occupied(rent("p5", "Residencia Universitaria", 150000, "Pueyrredón 34, Libertador", 1,
			img+"1555854877-bab0e564b8d5", "Ambiente tranquilo y seguro.", false), "t2", "c2"),
		sale("p6", "Casa Quinta con Piscina", 85000000, "Ruta 11 Km 5, Libertador", 4,
			img+"1564013799919-ab600027ffc6", "Parque arbolado de 2000m2 y piscina.", true),
		rent("p7", "Duplex Moderno Jardín", 280000, "Mitre 780, Libertador", 2,
			img+"1512917774080-9991f1c4c750", "Vivienda joven con patio propio.", false),
		rent("p8", "Penthouse Vista Rio", 550000, "Costanera 10, Libertador", 3,
			img+"1493809842364-78817add7ffb", "Piso exclusivo con terraza propia.", true),
		rent("p9", "Depto Luminoso Av. Colón", 245000, "Av. Colón 450, Libertador", 1,
			img+"1499916156191-151247eceee3", "Departamento moderno en el corazón comercial.", false),
		sale("p10", "Cabaña de Madera", 35000000, "Barrio El Ombú, Libertador", 2,
			img+"1449156001935-d28bc3502f75", "Cabaña acogedora ideal para inversión turística.", false),
		rent("p11", "Oficina Corporativa", 120000, "Torre Central Piso 4, Libertador", 1,
			img+"1497366216548-37526070297c", "Espacio profesional equipado con aire central.", false),
		sale("p12", "Chalet Clasico", 52000000, "Sarmiento 12, Libertador", 3,
			img+"1472224371017-08207f84aaae", "Propiedad sólida con jardín delantero y garage.", false),
		rent("p13", "Monoambiente Paseo del Parque", 195000, "Moreno 1022, Libertador", 1,
			img+"1522708323590-d24dbb6b0267", "Cerca de espacios verdes.", false),
		rent("p14", "Piso de Lujo Plaza Mayo", 650000, "Bolivar 2, Libertador", 3,
			img+"1560448204-e02f11c3d0e2", "Acabados en mármol y suite con vestidor.", true),
		sale("p15", "Casa Minimalista", 78000000, "Barrio Cerrado Las Lilas, Libertador", 3,
			img+"1512917774080-9991f1c4c750", "Arquitectura moderna y espacios integrados.", true),
		rent("p16", "Estudio Prof. Balcón", 230000, "Junín 45, Libertador", 1,
			img+"1536376074432-8f642462a630", "Apto profesional, excelente iluminación natural.", false),
		rent("p17", "Departamento Familiar", 380000, "Av. Alberdi 200, Libertador", 3,
			img+"1493809842364-78817add7ffb", "Cerca de centros comerciales y transporte.", false),
		sale("p18", "Casa de Campo", 95000000, "Afueras de Libertador", 4,
			img+"1500382017468-9049fed747ef", "Paz y naturaleza a solo 15 minutos de la ciudad.", false),
		rent("p19", "Duplex con Terraza", 290000, "Alvear 500, Libertador", 2,
			img+"1568605114967-8130f3a36994", "Terraza amplia con deck y vista a la ciudad.", false),
		rent("p20", "Monoambiente Vista Rio", 220000, "Costanera Sur, Libertador", 1,
			img+"1522708323590-d24dbb6b0267", "Ubicación inmejorable, ideal inversión.", false),
	}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func Contracts() []domain.Contract {
	return []domain.Contract{
		{
			ID: "c1", TenantID: "t1", PropertyID: "p1",
			StartDate: date(2024, time.January, 1), EndDate: date(2025, time.January, 1),
			MonthlyAmount: 185000, Status: domain.ContractActive, FolioNumber: "A30",
			Guarantor: domain.ContractGuarantor{Name: "Ricardo Gomez", Phone: "5493434123456", NationalID: "20.123.456"},
			Increases: "Aumento semestral según ICL",
		},
		{
			ID: "c2", TenantID: "t2", PropertyID: "p5",
			StartDate: date(2023, time.June, 1), EndDate: date(2024, time.June, 1),
			MonthlyAmount: 150000, Status: domain.ContractActive, FolioNumber: "C48",
			Guarantor: domain.ContractGuarantor{Name: "Marta Fernandez", Phone: "5493434654321", NationalID: "18.654.321"},
			Increases: "Aumento cuatrimestral del 25% fijo",
		},
	}
}

func Receipts() []domain.PaymentReceipt { return []domain.PaymentReceipt{} }

// Tickets are stamped relative to now.
func Tickets(now time.Time) []domain.Ticket {
	return []domain.Ticket{
		{
			ID: "tk1", Title: "Filtración en el baño principal", Description: "Filtración en el baño principal",
			Priority: domain.PriorityHigh, Status: domain.TicketPending, Origin: domain.OriginAutomated,
			CreatedAt: now.Add(-2 * time.Hour), TenantID: domain.StringPtr("t1"),
		},
		{
			ID: "tk2", Title: "Cambio de foco pasillo común", Description: "Cambio de foco pasillo común",
			Priority: domain.PriorityLow, Status: domain.TicketInProgress, Origin: domain.OriginManual,
			CreatedAt: now.Add(-24 * time.Hour),
		},
		{
			ID: "tk3", Title: "Persiana trabada en Living", Description: "Persiana trabada en Living",
			Priority: domain.PriorityMedium, Status: domain.TicketAwaitingQuote, Origin: domain.OriginAutomated,
			CreatedAt: now.Add(-5 * time.Hour), TenantID: domain.StringPtr("t1"),
		},
	}
}
