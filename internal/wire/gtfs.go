package wire

import (
	"fmt"

	gtfsrtpb "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"google.golang.org/protobuf/proto"

	"github.com/pkordes/transitlog-sink/internal/domain"
)

// DecodeGTFSAlerts decodes a GTFS-Realtime FeedMessage and maps every alert
// entity onto a Bulletin:
//
//   - entity id becomes the bulletin id
//   - informed entities with a route_id are affected routes, those with a
//     stop_id are affected stops (a selector naming both contributes to both)
//   - header, description and url translations become titles, descriptions
//     and urls
//   - the first active period is the validity window; the feed header
//     timestamp is the last-modified instant
//   - cause, effect and severity level fill category, impact and priority
//
// GTFS-RT has no "affects all" flags, so an alert with no usable informed
// entity expands to zero rows.
func DecodeGTFSAlerts(payload []byte) (domain.ServiceAlert, error) {
	var fm gtfsrtpb.FeedMessage
	if err := proto.Unmarshal(payload, &fm); err != nil {
		return domain.ServiceAlert{}, fmt.Errorf("wire.DecodeGTFSAlerts: %w: %w", domain.ErrDecodeFailed, err)
	}

	lastModified := int64(fm.GetHeader().GetTimestamp()) * 1000

	sa := domain.ServiceAlert{SchemaVersion: 1}
	for _, e := range fm.GetEntity() {
		a := e.GetAlert()
		if a == nil || e.GetIsDeleted() {
			continue
		}

		b := domain.Bulletin{
			BulletinID:   e.GetId(),
			Category:     a.GetCause().String(),
			Impact:       a.GetEffect().String(),
			Priority:     a.GetSeverityLevel().String(),
			LastModified: lastModified,
			Titles:       translations(a.GetHeaderText()),
			Descriptions: translations(a.GetDescriptionText()),
			URLs:         translations(a.GetUrl()),
		}

		if periods := a.GetActivePeriod(); len(periods) > 0 {
			b.ValidFrom = int64(periods[0].GetStart()) * 1000
			b.ValidTo = int64(periods[0].GetEnd()) * 1000
		}

		for _, ie := range a.GetInformedEntity() {
			if ie.RouteId != nil {
				b.AffectedRoutes = append(b.AffectedRoutes, domain.AffectedEntity{EntityID: ie.GetRouteId()})
			}
			if ie.StopId != nil {
				b.AffectedStops = append(b.AffectedStops, domain.AffectedEntity{EntityID: ie.GetStopId()})
			}
		}

		sa.Bulletins = append(sa.Bulletins, b)
	}
	return sa, nil
}

func translations(ts *gtfsrtpb.TranslatedString) []domain.Translation {
	out := make([]domain.Translation, 0, len(ts.GetTranslation()))
	for _, t := range ts.GetTranslation() {
		out = append(out, domain.Translation{Text: t.GetText(), Language: t.GetLanguage()})
	}
	return out
}
