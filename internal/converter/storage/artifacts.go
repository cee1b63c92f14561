// Package storage keeps the files produced for each stored plan.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// ErrInvalidID is returned for plan IDs that are not UUIDs.
var ErrInvalidID = errors.New("invalid plan id")

// ============================================================
// File Storage
// ============================================================

type FileStorage struct {
	root string
}

func NewFileStorage(root string) *FileStorage {
	return &FileStorage{root: root}
}

// PlanDir returns the directory of a plan. Only UUIDs are accepted so an ID
// can never point outside the root.
func (s *FileStorage) PlanDir(planID string) (string, error) {
	if _, err := uuid.Parse(planID); err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, planID)
	}
	return filepath.Join(s.root, planID), nil
}

func (s *FileStorage) CapturePath(planID string) (string, error) {
	return s.path(planID, "capture.json")
}

func (s *FileStorage) SVGPath(planID string) (string, error) {
	return s.path(planID, "plan.svg")
}

func (s *FileStorage) PNGPath(planID string) (string, error) {
	return s.path(planID, "plan.png")
}

func (s *FileStorage) path(planID, name string) (string, error) {
	dir, err := s.PlanDir(planID)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

func (s *FileStorage) EnsureDir(planID string) error {
	path, err := s.PlanDir(planID)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("mkdir plan dir: %w", err)
	}
	return nil
}

// SaveFile writes data to target, creating the plan directory first.
func (s *FileStorage) SaveFile(planID, target string, data []byte) error {
	if err := s.EnsureDir(planID); err != nil {
		return err
	}
	return os.WriteFile(target, data, 0o644)
}

// RemovePlan deletes the plan directory and everything in it.
func (s *FileStorage) RemovePlan(planID string) error {
	path, err := s.PlanDir(planID)
	if err != nil {
		return err
	}
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("remove plan dir: %w", err)
	}
	return nil
}

// SaveArtifacts writes the capture and the rendered SVG of a plan.
func (s *FileStorage) SaveArtifacts(planID string, capture []byte, svg string) error {
	capturePath, err := s.CapturePath(planID)
	if err != nil {
		return err
	}
	svgPath, err := s.SVGPath(planID)
	if err != nil {
		return err
	}

	if err := s.SaveFile(planID, capturePath, capture); err != nil {
		return fmt.Errorf("save capture: %w", err)
	}
	if err := s.SaveFile(planID, svgPath, []byte(svg)); err != nil {
		return fmt.Errorf("save svg: %w", err)
	}
	return nil
}
