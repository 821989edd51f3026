// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

type seedSubsection struct {
	id           int64
	sectionID    int64
	name         string
	description  string
	descriptions [3]string // indexed by score value - 1
}

var seedSections = []struct {
	id   int64
	name string
}{
	{1, "Infrastructure"},
	{2, "Feed and fodder"},
	{3, "Animal nutrition"},
	{4, "Animal health"},
	{5, "Milker's health"},
	{6, "Preparation for milking"},
	{7, "Milking and post milking activities"},
	{8, "Handling of milk"},
}

var seedSubsections = []seedSubsection{
	{
		id: 1, sectionID: 1,
		name:        "CATTLE SHED FLOORING",
		description: "Condition and grip of the floor where animals stand and rest.",
		descriptions: [3]string{
			"Kachcha floor made of mud or small stones. Areas are wet or have waterlogged patches.",
			"Floor has some slippery areas but mostly adequate grip.",
			"Concrete floor with rubber mats to ensure adequate grip.",
		},
	},
	{
		id: 2, sectionID: 1,
		name:        "CATTLE SHED ROOFING",
		description: "Protection from sun and rain, and roof height.",
		descriptions: [3]string{
			"Animals are tied in open without roof to protect from direct sunlight and rain.",
			"Roof height is low, with lowest point being less than 8 feet.",
			"Roof is high enough for animals and provides excellent protection being more than 10-12 feet.",
		},
	},
	{
		id: 3, sectionID: 1,
		name:        "SPACE INSIDE THE CATTLE SHED",
		description: "Room available per animal inside the shed.",
		descriptions: [3]string{
			"There is not enough space in the shed, resulting in overcrowded living in cramped and uncomfortable conditions.",
			"Space is limited but animals can move with some restrictions.",
			"There is sufficient space in the shed and animals are staying in comfortable conditions.",
		},
	},
	{
		id: 4, sectionID: 1,
		name:        "AIRFLOW AND VENTILATION IN CATTLE SHED",
		description: "Cross ventilation, heat and humidity inside the shed.",
		descriptions: [3]string{
			"There is no or very minimal ventilation, leading to high heat and humidity, and foul odor inside the shed.",
			"Limited provision for cross ventilation, leading to foul odor in the shed.",
			"Properly ventilated shed with adequate airflow, leading to low humidity, temperature, and no foul odor in the shed.",
		},
	},
	{
		id: 5, sectionID: 1,
		name:        "DRAINAGE SYSTEM INSIDE THE CATTLE SHED",
		description: "How wastewater leaves the shed.",
		descriptions: [3]string{
			"No drainage inside the shed, leading to waterlogging and lots of flies.",
			"The shed has a drain, but wastewater is not properly drained out, leading to waterlogging.",
			"The shed has proper drain that allows all wastewater to flow out easily, preventing any waterlogging in the shed.",
		},
	},
	{
		id: 6, sectionID: 1,
		name:        "WASTE MANAGEMENT",
		description: "Dung pit and disposal of dung and urine.",
		descriptions: [3]string{
			"Lack a dung pit or organized system for waste and dung disposal. Dung and urine are scattered around the shed, attracting numerous flies.",
			"The dung pit is constructed but poorly maintained. It is exposed or leaking, hindering drainage, and serving as a breeding ground for flies.",
			"A concrete dung pit or biogas production structure is properly constructed and maintained. Drains are free from waterlogging.",
		},
	},
}

// SeedCatalog inserts the assessment sections, subsections and rubric text.
// Existing rows are left untouched so edits made on the server survive restarts.
func SeedCatalog(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer tx.Rollback()

	for _, s := range seedSections {
		_, err := tx.Exec(`
			INSERT INTO section (id, name) VALUES ($1, $2)
			ON CONFLICT (id) DO NOTHING
		`, s.id, s.name)
		if err != nil {
			return fmt.Errorf("failed to seed section %d: %w", s.id, err)
		}
	}

	for i, sub := range seedSubsections {
		_, err := tx.Exec(`
			INSERT INTO subsection (id, section_id, name, description, sort_order)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (id) DO NOTHING
		`, sub.id, sub.sectionID, sub.name, sub.description, i)
		if err != nil {
			return fmt.Errorf("failed to seed subsection %d: %w", sub.id, err)
		}

		for v, text := range sub.descriptions {
			_, err := tx.Exec(`
				INSERT INTO score_description (subsection_id, score_value, description)
				VALUES ($1, $2, $3)
				ON CONFLICT (subsection_id, score_value) DO NOTHING
			`, sub.id, v+1, text)
			if err != nil {
				return fmt.Errorf("failed to seed score description %d/%d: %w", sub.id, v+1, err)
			}
		}
	}

	return tx.Commit()
}
