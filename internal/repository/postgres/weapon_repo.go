package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/freeeve/salvo/internal/model"
)

const weaponColumns = `name, internal_name, range_minimum, range_short, range_medium, range_long, range_extreme,
	damage, rack_size, missile_damage, heat, flags, infantry_damage, infantry_damage_class, updated_at`

// WeaponRepo handles weapon catalog database operations.
type WeaponRepo struct {
	db *sql.DB
}

// NewWeaponRepo creates a WeaponRepo.
func NewWeaponRepo(db *sql.DB) *WeaponRepo {
	return &WeaponRepo{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWeapon(row rowScanner) (*model.WeaponRecord, error) {
	var w model.WeaponRecord
	var flags pq.StringArray
	err := row.Scan(&w.Name, &w.InternalName,
		&w.Ranges[0], &w.Ranges[1], &w.Ranges[2], &w.Ranges[3], &w.Ranges[4],
		&w.Damage, &w.RackSize, &w.MissileDamage, &w.Heat, &flags,
		&w.InfantryDamage, &w.InfantryDamageClass, &w.UpdatedAt)
	if err != nil {
		return nil, err
	}
	w.Flags = []string(flags)
	return &w, nil
}

// FindByName looks up a weapon by display name, falling back to internal name.
func (r *WeaponRepo) FindByName(ctx context.Context, name string) (*model.WeaponRecord, error) {
	w, err := scanWeapon(r.db.QueryRowContext(ctx,
		`SELECT `+weaponColumns+` FROM weapons
		 WHERE lower(name) = lower($1) OR lower(internal_name) = lower($1)
		 ORDER BY lower(name) = lower($1) DESC
		 LIMIT 1`,
		name,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find weapon by name: %w", err)
	}
	return w, nil
}

// List returns the whole catalog ordered by name.
func (r *WeaponRepo) List(ctx context.Context) ([]model.WeaponRecord, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+weaponColumns+` FROM weapons ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list weapons: %w", err)
	}
	defer rows.Close()

	var weapons []model.WeaponRecord
	for rows.Next() {
		w, err := scanWeapon(rows)
		if err != nil {
			return nil, fmt.Errorf("scan weapon: %w", err)
		}
		weapons = append(weapons, *w)
	}
	return weapons, rows.Err()
}

// Upsert inserts a weapon or replaces the entry whose name matches ignoring
// case. Records with unknown flag or damage class names are rejected.
func (r *WeaponRepo) Upsert(ctx context.Context, w model.WeaponRecord) error {
	if _, err := w.WeaponType(); err != nil {
		return err
	}
	flags := w.Flags
	if flags == nil {
		flags = []string{}
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO weapons (name, internal_name, range_minimum, range_short, range_medium, range_long, range_extreme,
		                      damage, rack_size, missile_damage, heat, flags, infantry_damage, infantry_damage_class)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		 ON CONFLICT ((lower(name))) DO UPDATE SET
		   name = EXCLUDED.name,
		   internal_name = EXCLUDED.internal_name,
		   range_minimum = EXCLUDED.range_minimum,
		   range_short = EXCLUDED.range_short,
		   range_medium = EXCLUDED.range_medium,
		   range_long = EXCLUDED.range_long,
		   range_extreme = EXCLUDED.range_extreme,
		   damage = EXCLUDED.damage,
		   rack_size = EXCLUDED.rack_size,
		   missile_damage = EXCLUDED.missile_damage,
		   heat = EXCLUDED.heat,
		   flags = EXCLUDED.flags,
		   infantry_damage = EXCLUDED.infantry_damage,
		   infantry_damage_class = EXCLUDED.infantry_damage_class,
		   updated_at = now()`,
		w.Name, w.InternalName,
		w.Ranges[0], w.Ranges[1], w.Ranges[2], w.Ranges[3], w.Ranges[4],
		w.Damage, w.RackSize, w.MissileDamage, w.Heat, pq.Array(flags),
		w.InfantryDamage, w.InfantryDamageClass,
	)
	if err != nil {
		return fmt.Errorf("upsert weapon %s: %w", w.Name, err)
	}
	return nil
}
