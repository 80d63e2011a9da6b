// Package catalog ships the reference catalogs in code and serves them
// through a two-level cache. The catalogs are static regulatory texts;
// seeding them into the database is an explicit, idempotent operation.
package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/rosverk/rosreg/internal/domain/models"
	"github.com/rosverk/rosreg/pkg/constants"
)

// nsmVersion is the carried revision of NSMs grunnprinsipper for
// IKT-sikkerhet.
const nsmVersion = "2.0"

var nsmEffectiveFrom = time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

// NSM category names, as displayed in coverage reports.
const (
	nsmIdentifisere = "1. Identifisere"
	nsmBeskytte     = "2. Beskytte"
	nsmOppdage      = "3. Oppdage"
	nsmHaandtere    = "4. Håndtere og gjenopprette"
)

type catalogEntry struct {
	code        string
	title       string
	category    string
	description string
}

// nsmEntries lists the grunnprinsipper with their official Norwegian
// titles, in the four categories of version 2.0.
var nsmEntries = []catalogEntry{
	{code: "1.1", category: nsmIdentifisere, title: "Kartlegg virksomhetens verdier"},
	{code: "1.2", category: nsmIdentifisere, title: "Kartlegg verdikjeder og avhengigheter"},
	{code: "1.3", category: nsmIdentifisere, title: "Kartlegg enheter og programvare"},
	{code: "1.4", category: nsmIdentifisere, title: "Kartlegg brukere og tilganger"},
	{code: "1.5", category: nsmIdentifisere, title: "Kartlegg sårbarheter"},
	{code: "1.6", category: nsmIdentifisere, title: "Vurder risiko"},

	{code: "2.1", category: nsmBeskytte, title: "Ivareta sikkerhet i anskaffelser"},
	{code: "2.2", category: nsmBeskytte, title: "Etabler en sikker IKT-arkitektur"},
	{code: "2.3", category: nsmBeskytte, title: "Ivareta en sikker konfigurasjon"},
	{code: "2.4", category: nsmBeskytte, title: "Beskytt virksomhetens nettverk"},
	{code: "2.5", category: nsmBeskytte, title: "Kontroller dataflyt"},
	{code: "2.6", category: nsmBeskytte, title: "Ha kontroll på identiteter og tilganger"},
	{code: "2.7", category: nsmBeskytte, title: "Beskytt data i ro og i transitt"},
	{code: "2.8", category: nsmBeskytte, title: "Beskytt e-post og nettleser"},
	{code: "2.9", category: nsmBeskytte, title: "Etabler evne til gjenoppretting av data"},
	{code: "2.10", category: nsmBeskytte, title: "Integrer sikkerhet i prosess for endringshåndtering"},

	{code: "3.1", category: nsmOppdage, title: "Oppdag og fjern kjente sårbarheter og trusler"},
	{code: "3.2", category: nsmOppdage, title: "Etabler sikkerhetsovervåking"},
	{code: "3.3", category: nsmOppdage, title: "Analyser data fra sikkerhetsovervåking"},
	{code: "3.4", category: nsmOppdage, title: "Gjennomfør inntrengningstester"},

	{code: "4.1", category: nsmHaandtere, title: "Forbered virksomheten på å håndtere hendelser"},
	{code: "4.2", category: nsmHaandtere, title: "Vurder og kategoriser hendelser"},
	{code: "4.3", category: nsmHaandtere, title: "Håndter hendelser effektivt"},
	{code: "4.4", category: nsmHaandtere, title: "Lær av sikkerhetshendelser"},
}

// NSMCatalog materialises the NSM reference items. Each call returns
// fresh models; identity in the database comes from the
// (framework, code, version) key, not from these generated ids.
func NSMCatalog() []*models.ReferenceItem {
	return buildItems(constants.FrameworkNSM, nsmVersion, nsmEffectiveFrom, nsmEntries)
}

func buildItems(framework constants.Framework, version string, effectiveFrom time.Time, entries []catalogEntry) []*models.ReferenceItem {
	now := time.Now().UTC()
	items := make([]*models.ReferenceItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, &models.ReferenceItem{
			ID:            uuid.New(),
			Framework:     framework,
			Code:          e.code,
			Title:         e.title,
			Description:   e.description,
			Category:      e.category,
			Version:       version,
			EffectiveFrom: effectiveFrom,
			CreatedAt:     now,
			UpdatedAt:     now,
		})
	}
	return items
}
