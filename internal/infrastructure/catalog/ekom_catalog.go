package catalog

import (
	"time"

	"github.com/rosverk/rosreg/internal/domain/models"
	"github.com/rosverk/rosreg/pkg/constants"
)

// ekomVersion is the carried revision of ekomforskriften chapter 2
// (sikkerhet og beredskap).
const ekomVersion = "2024"

var ekomEffectiveFrom = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// Ekomforskriften category names.
const (
	ekomSikkerhet        = "Sikkerhet og beredskap"
	ekomKonfidensialitet = "Konfidensialitet"
	ekomDokumentasjon    = "Dokumentasjon"
	ekomVarsling         = "Varsling"
)

// ekomEntries lists the chapter 2 clauses. Codes omit the paragraph
// sign; presentation layers render "§ 2-1" from the code.
var ekomEntries = []catalogEntry{
	{
		code:        "2-1",
		category:    ekomSikkerhet,
		title:       "Krav om sikkerhet",
		description: "Tilbyder skal sørge for forsvarlig sikkerhet for brukerne og nett og tjenester mot brudd på konfidensialitet, integritet og tilgjengelighet.",
	},
	{
		code:        "2-2",
		category:    ekomSikkerhet,
		title:       "Sikkerhetstiltak",
		description: "Tilbyder skal iverksette tekniske og organisatoriske tiltak for å sikre nett og tjenester.",
	},
	{
		code:        "2-3",
		category:    ekomSikkerhet,
		title:       "Sikkerhetsgodkjenning",
		description: "Myndigheten kan kreve at tilbyder dokumenterer sikkerhetstiltak og rutiner.",
	},
	{
		code:        "2-4",
		category:    ekomSikkerhet,
		title:       "Beredskap",
		description: "Tilbyder skal ha beredskapsplaner og -tiltak for å opprettholde nett og tjenester ved ekstraordinære situasjoner.",
	},
	{
		code:        "2-5",
		category:    ekomKonfidensialitet,
		title:       "Konfidensialitet",
		description: "Tilbyder skal sørge for konfidensialitet for kommunikasjonsinnhold og trafikkdata.",
	},
	{
		code:        "2-6",
		category:    ekomDokumentasjon,
		title:       "Risiko- og sårbarhetsanalyser",
		description: "Tilbyder skal gjennomføre risiko- og sårbarhetsanalyser og dokumentere disse.",
	},
	{
		code:        "2-7",
		category:    ekomVarsling,
		title:       "Varslingsplikt",
		description: "Tilbyder skal varsle myndigheten om sikkerhetsbrudd og integritetskrenkelser.",
	},
	{
		code:        "2-8",
		category:    ekomDokumentasjon,
		title:       "Dokumentasjonsplikt",
		description: "Tilbyder skal dokumentere sikkerhetstiltak, rutiner og analyser.",
	},
	{
		code:        "2-9",
		category:    ekomDokumentasjon,
		title:       "Tilsyn",
		description: "Myndigheten fører tilsyn med at kravene i forskriften etterleves.",
	},
	{
		code:        "2-10",
		category:    ekomSikkerhet,
		title:       "Pålegg",
		description: "Myndigheten kan gi pålegg om tiltak for å sikre nett og tjenester.",
	},
}

// EkomCatalog materialises the ekomforskriften reference items.
func EkomCatalog() []*models.ReferenceItem {
	return buildItems(constants.FrameworkEkom, ekomVersion, ekomEffectiveFrom, ekomEntries)
}
