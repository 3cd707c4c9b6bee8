package seed

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	appModels "github.com/dmelo/shiftboard/internal/app/models"
	appRepos "github.com/dmelo/shiftboard/internal/app/repositories"
	"github.com/dmelo/shiftboard/internal/pkg/apperrors"
)

// CreateDefaultData seeds the director account and a small demo term so a
// fresh install is usable right away. Every step tolerates already-present
// rows, so re-running is safe.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	courseRepo := appRepos.NewCourseRepository(dbPool)
	shiftRepo := appRepos.NewShiftRepository(dbPool)
	studentRepo := appRepos.NewStudentRepository(dbPool)
	userRepo := appRepos.NewUserRepository(dbPool)

	lgr.Info().Msg("Checking/Creating default data...")
	var finalErr error

	// --- Default director account --- //
	if _, err := userRepo.GetByEmail(ctx, "director@shiftboard.edu"); err != nil {
		if !errors.Is(err, apperrors.ErrUserNotFound) {
			lgr.Error().Err(err).Msg("Error checking for director account")
			finalErr = errors.Join(finalErr, err)
		} else {
			lgr.Info().Msg("Creating default director account...")
			hashedPassword, err := bcrypt.GenerateFromPassword([]byte("Director123!"), bcrypt.DefaultCost)
			if err != nil {
				lgr.Error().Err(err).Msg("Error hashing director password")
				finalErr = errors.Join(finalErr, err)
			} else {
				director := &appModels.User{
					Email:        "director@shiftboard.edu",
					PasswordHash: string(hashedPassword),
					Name:         "Course Director",
					RoleType:     appModels.RoleDirector,
				}
				if err := userRepo.Create(ctx, director); err != nil {
					lgr.Error().Err(err).Msg("Error creating director account")
					finalErr = errors.Join(finalErr, err)
				} else {
					lgr.Info().Int64("userId", director.ID).Msg("Default director account created")
				}
			}
		}
	}

	// --- Demo courses and shifts --- //
	demoCourses := []*appModels.Course{
		{Name: "Software Systems Design", Abbreviation: "SSD"},
		{Name: "Operating Systems", Abbreviation: "OS"},
	}
	courseIDs := make(map[string]int64)
	for _, course := range demoCourses {
		err := courseRepo.Create(ctx, course)
		if err != nil && !errors.Is(err, apperrors.ErrCourseAlreadyExists) {
			lgr.Error().Err(err).Str("course", course.Abbreviation).Msg("Error creating demo course")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		if errors.Is(err, apperrors.ErrCourseAlreadyExists) {
			existing, errGet := courseRepo.GetAll(ctx)
			if errGet != nil {
				finalErr = errors.Join(finalErr, errGet)
				continue
			}
			for _, c := range existing {
				if c.Abbreviation == course.Abbreviation {
					course.ID = c.ID
					break
				}
			}
		}
		if course.ID > 0 {
			courseIDs[course.Abbreviation] = course.ID
		}
	}

	if ssdID, ok := courseIDs["SSD"]; ok {
		existing, err := shiftRepo.GetByCourseID(ctx, ssdID)
		if err != nil {
			finalErr = errors.Join(finalErr, err)
		} else if len(existing) == 0 {
			demoShifts := []*appModels.Shift{
				{CourseID: ssdID, Weekday: appModels.Monday, StartMin: 9 * 60, EndMin: 11 * 60, Capacity: 60, Room: "B101", Kind: appModels.Theoretical},
				{CourseID: ssdID, Weekday: appModels.Wednesday, StartMin: 14 * 60, EndMin: 16 * 60, Capacity: 25, Room: "Lab2", Kind: appModels.Practical},
			}
			for _, shift := range demoShifts {
				if err := shiftRepo.Create(ctx, shift); err != nil {
					lgr.Error().Err(err).Msg("Error creating demo shift")
					finalErr = errors.Join(finalErr, err)
				}
			}
		}
	}

	// --- Demo student with login --- //
	demoStudent := &appModels.Student{Number: "A10001", Name: "Demo Student"}
	err := studentRepo.Create(ctx, demoStudent)
	if err != nil && !errors.Is(err, apperrors.ErrStudentAlreadyExists) {
		lgr.Error().Err(err).Msg("Error creating demo student")
		finalErr = errors.Join(finalErr, err)
	}
	if err == nil && demoStudent.ID > 0 {
		for _, courseID := range courseIDs {
			if err := studentRepo.Enrol(ctx, demoStudent.ID, courseID); err != nil {
				lgr.Error().Err(err).Msg("Error enrolling demo student")
				finalErr = errors.Join(finalErr, err)
			}
		}

		hashedPassword, errHash := bcrypt.GenerateFromPassword([]byte("Student123!"), bcrypt.DefaultCost)
		if errHash != nil {
			finalErr = errors.Join(finalErr, errHash)
		} else {
			studentUser := &appModels.User{
				Email:        "student@shiftboard.edu",
				PasswordHash: string(hashedPassword),
				Name:         demoStudent.Name,
				RoleType:     appModels.RoleStudent,
				StudentID:    &demoStudent.ID,
			}
			if err := userRepo.Create(ctx, studentUser); err != nil && !errors.Is(err, apperrors.ErrEmailAlreadyExists) {
				lgr.Error().Err(err).Msg("Error creating demo student account")
				finalErr = errors.Join(finalErr, err)
			}
		}
	}

	lgr.Info().Msg("Default data check/creation finished.")
	return finalErr
}
