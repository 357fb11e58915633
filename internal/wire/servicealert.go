package wire

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/pkordes/transitlog-sink/internal/domain"
)

// ServiceAlert field numbers.
const (
	alertSchemaVersion protowire.Number = 1
	alertBulletins     protowire.Number = 2
)

// Bulletin field numbers.
const (
	bulletinID               protowire.Number = 1
	bulletinCategory         protowire.Number = 2
	bulletinLastModified     protowire.Number = 3
	bulletinValidFrom        protowire.Number = 4
	bulletinValidTo          protowire.Number = 5
	bulletinImpact           protowire.Number = 6
	bulletinPriority         protowire.Number = 7
	bulletinTitles           protowire.Number = 8
	bulletinDescriptions     protowire.Number = 9
	bulletinURLs             protowire.Number = 10
	bulletinAffectedRoutes   protowire.Number = 11
	bulletinAffectedStops    protowire.Number = 12
	bulletinAffectsAllRoutes protowire.Number = 13
	bulletinAffectsAllStops  protowire.Number = 14
)

// DecodeServiceAlert decodes a TransitdataServiceAlert payload.
// Bulletins keep their wire order.
func DecodeServiceAlert(payload []byte) (domain.ServiceAlert, error) {
	var sa domain.ServiceAlert
	err := forEachField(payload, func(f field) error {
		switch f.num {
		case alertSchemaVersion:
			v, err := f.int32()
			if err != nil {
				return err
			}
			sa.SchemaVersion = v
		case alertBulletins:
			raw, err := f.bytes()
			if err != nil {
				return err
			}
			b, err := decodeBulletin(raw)
			if err != nil {
				return fmt.Errorf("bulletin %d: %w", len(sa.Bulletins), err)
			}
			sa.Bulletins = append(sa.Bulletins, b)
		}
		return nil
	})
	if err != nil {
		return domain.ServiceAlert{}, fmt.Errorf("wire.DecodeServiceAlert: %w: %w", domain.ErrDecodeFailed, err)
	}
	return sa, nil
}

func decodeBulletin(raw []byte) (domain.Bulletin, error) {
	var b domain.Bulletin
	seen := required{
		bulletinID:           false,
		bulletinCategory:     false,
		bulletinLastModified: false,
		bulletinValidFrom:    false,
		bulletinValidTo:      false,
		bulletinImpact:       false,
		bulletinPriority:     false,
	}

	err := forEachField(raw, func(f field) error {
		var err error
		switch f.num {
		case bulletinID:
			b.BulletinID, err = f.string()
		case bulletinCategory:
			var v int32
			v, err = f.int32()
			b.Category = enumName(categoryNames, v)
		case bulletinLastModified:
			b.LastModified, err = f.int64()
		case bulletinValidFrom:
			b.ValidFrom, err = f.int64()
		case bulletinValidTo:
			b.ValidTo, err = f.int64()
		case bulletinImpact:
			var v int32
			v, err = f.int32()
			b.Impact = enumName(impactNames, v)
		case bulletinPriority:
			var v int32
			v, err = f.int32()
			b.Priority = enumName(priorityNames, v)
		case bulletinTitles:
			b.Titles, err = appendTranslation(b.Titles, f)
		case bulletinDescriptions:
			b.Descriptions, err = appendTranslation(b.Descriptions, f)
		case bulletinURLs:
			b.URLs, err = appendTranslation(b.URLs, f)
		case bulletinAffectedRoutes:
			b.AffectedRoutes, err = appendEntity(b.AffectedRoutes, f)
		case bulletinAffectedStops:
			b.AffectedStops, err = appendEntity(b.AffectedStops, f)
		case bulletinAffectsAllRoutes:
			var v bool
			v, err = f.bool()
			b.AffectsAllRoutes = &v
		case bulletinAffectsAllStops:
			var v bool
			v, err = f.bool()
			b.AffectsAllStops = &v
		default:
			return nil
		}
		if _, ok := seen[f.num]; ok {
			seen[f.num] = true
		}
		return err
	})
	if err != nil {
		return domain.Bulletin{}, err
	}
	if missing := seen.missing(); len(missing) > 0 {
		return domain.Bulletin{}, fmt.Errorf("missing required fields %v", missing)
	}
	return b, nil
}

// Translation: text = 1, language = 2.
func appendTranslation(dst []domain.Translation, f field) ([]domain.Translation, error) {
	raw, err := f.bytes()
	if err != nil {
		return dst, err
	}
	var t domain.Translation
	err = forEachField(raw, func(f field) error {
		var err error
		switch f.num {
		case 1:
			t.Text, err = f.string()
		case 2:
			t.Language, err = f.string()
		}
		return err
	})
	if err != nil {
		return dst, fmt.Errorf("translation: %w", err)
	}
	return append(dst, t), nil
}

// AffectedEntity: entity_id = 1.
func appendEntity(dst []domain.AffectedEntity, f field) ([]domain.AffectedEntity, error) {
	raw, err := f.bytes()
	if err != nil {
		return dst, err
	}
	var e domain.AffectedEntity
	err = forEachField(raw, func(f field) error {
		if f.num != 1 {
			return nil
		}
		var err error
		e.EntityID, err = f.string()
		return err
	})
	if err != nil {
		return dst, fmt.Errorf("affected entity: %w", err)
	}
	return append(dst, e), nil
}
