package postgres

import (
	"fmt"
	"strings"

	"github.com/julianstephens/hearth/internal/models"
	"github.com/julianstephens/hearth/internal/storage"
)

func (s *Store) CreateFamily(f models.Family) error {
	_, err := s.db.Exec(`
		INSERT INTO families (id, name, invite_code, created_at)
		VALUES ($1, $2, $3, $4)`,
		f.ID, f.Name, strings.ToUpper(f.InviteCode), storage.FormatTimestamp(f.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create family: %w", err)
	}
	return nil
}

func scanFamily(row scanner) (models.Family, error) {
	var f models.Family
	var createdAt string
	if err := row.Scan(&f.ID, &f.Name, &f.InviteCode, &createdAt); err != nil {
		return models.Family{}, err
	}
	t, err := storage.ParseTimestamp(createdAt)
	if err != nil {
		return models.Family{}, err
	}
	f.CreatedAt = t
	return f, nil
}

func (s *Store) GetFamily(id string) (models.Family, error) {
	row := s.db.QueryRow(`SELECT id, name, invite_code, created_at FROM families WHERE id = $1`, id)
	f, err := scanFamily(row)
	if err != nil {
		return models.Family{}, notFound(err, "family", id)
	}
	return f, nil
}

func (s *Store) GetFamilyByInviteCode(code string) (models.Family, error) {
	code = strings.TrimSpace(code)
	row := s.db.QueryRow(`SELECT id, name, invite_code, created_at FROM families WHERE upper(invite_code) = upper($1)`, code)
	f, err := scanFamily(row)
	if err != nil {
		return models.Family{}, notFound(err, "invite code", code)
	}
	return f, nil
}

func (s *Store) ListFamilies() ([]models.Family, error) {
	rows, err := s.db.Query(`SELECT id, name, invite_code, created_at FROM families ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var families []models.Family
	for rows.Next() {
		f, err := scanFamily(rows)
		if err != nil {
			return nil, err
		}
		families = append(families, f)
	}
	return families, rows.Err()
}

func (s *Store) AddMember(m models.Member) error {
	_, err := s.db.Exec(`
		INSERT INTO members (id, family_id, name, email, avatar, color, role, joined_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		m.ID, m.FamilyID, m.Name, m.Email, m.Avatar, m.Color, string(m.Role), storage.FormatTimestamp(m.JoinedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to add member: %w", err)
	}
	return nil
}

func scanMember(row scanner) (models.Member, error) {
	var m models.Member
	var role, joinedAt string
	if err := row.Scan(&m.ID, &m.FamilyID, &m.Name, &m.Email, &m.Avatar, &m.Color, &role, &joinedAt); err != nil {
		return models.Member{}, err
	}
	m.Role = models.Role(role)
	t, err := storage.ParseTimestamp(joinedAt)
	if err != nil {
		return models.Member{}, err
	}
	m.JoinedAt = t
	return m, nil
}

const memberColumns = `id, family_id, name, email, avatar, color, role, joined_at`

func (s *Store) GetMember(id string) (models.Member, error) {
	row := s.db.QueryRow(`SELECT `+memberColumns+` FROM members WHERE id = $1`, id)
	m, err := scanMember(row)
	if err != nil {
		return models.Member{}, notFound(err, "member", id)
	}
	return m, nil
}

func (s *Store) ListMembers(familyID string) ([]models.Member, error) {
	rows, err := s.db.Query(`SELECT `+memberColumns+` FROM members WHERE family_id = $1 ORDER BY joined_at, name`, familyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []models.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (s *Store) UpdateMember(m models.Member) error {
	res, err := s.db.Exec(`
		UPDATE members SET name = $1, email = $2, avatar = $3, color = $4, role = $5
		WHERE id = $6`,
		m.Name, m.Email, m.Avatar, m.Color, string(m.Role), m.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update member: %w", err)
	}
	return requireAffected(res, "member", m.ID)
}

func (s *Store) DeleteMember(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM task_assignments WHERE member_id = $1`, id); err != nil {
		return fmt.Errorf("failed to remove member assignments: %w", err)
	}
	res, err := tx.Exec(`DELETE FROM members WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete member: %w", err)
	}
	if err := requireAffected(res, "member", id); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) AddCategory(c models.Category) error {
	_, err := s.db.Exec(`
		INSERT INTO categories (id, family_id, name, icon, color, is_default)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		c.ID, c.FamilyID, c.Name, c.Icon, c.Color, c.IsDefault,
	)
	if err != nil {
		return fmt.Errorf("failed to add category: %w", err)
	}
	return nil
}

func (s *Store) ListCategories(familyID string) ([]models.Category, error) {
	rows, err := s.db.Query(`
		SELECT id, family_id, name, icon, color, is_default
		FROM categories WHERE family_id = $1 ORDER BY is_default DESC, name`, familyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.FamilyID, &c.Name, &c.Icon, &c.Color, &c.IsDefault); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (s *Store) DeleteCategory(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`UPDATE tasks SET category_id = '' WHERE category_id = $1`, id); err != nil {
		return fmt.Errorf("failed to detach category from tasks: %w", err)
	}
	res, err := tx.Exec(`DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	if err := requireAffected(res, "category", id); err != nil {
		return err
	}
	return tx.Commit()
}
