// Command seed loads a small demo dataset so the API has something to
// serve on a fresh database.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/bomino/newgrader/internal/models"
	"github.com/bomino/newgrader/internal/repository"
	"github.com/bomino/newgrader/pkg/config"
	"github.com/bomino/newgrader/pkg/database"
)

func main() {
	var timeout time.Duration
	flag.DurationVar(&timeout, "timeout", 30*time.Second, "overall seeding timeout")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	classes := repository.NewClassRepository(db)
	students := repository.NewStudentRepository(db)
	assignments := repository.NewAssignmentRepository(db)
	keys := repository.NewAnswerKeyRepository(db)
	grades := repository.NewGradeRepository(db)

	class := &models.Class{Name: "Biology 101"}
	if err := classes.Create(ctx, class); err != nil {
		log.Fatalf("seed class: %v", err)
	}

	roster := []string{"Alice Johnson", "Bob Lee", "Carol Diaz", "Dan Okafor"}
	studentIDs := make([]string, 0, len(roster))
	for _, name := range roster {
		s := &models.Student{ClassID: class.ID, Name: name}
		if err := students.Create(ctx, s); err != nil {
			log.Fatalf("seed student %s: %v", name, err)
		}
		studentIDs = append(studentIDs, s.ID)
	}

	quiz := &models.Assignment{ClassID: class.ID, Name: "Quiz 1", MaxPoints: 10, Weight: 1}
	if err := assignments.Create(ctx, quiz); err != nil {
		log.Fatalf("seed assignment: %v", err)
	}
	exam := &models.Assignment{ClassID: class.ID, Name: "Midterm", MaxPoints: 100, Weight: 3}
	if err := assignments.Create(ctx, exam); err != nil {
		log.Fatalf("seed assignment: %v", err)
	}

	entries := []models.AnswerKeyEntry{
		{QuestionNum: 1, CorrectAnswer: "A", Points: 2, QuestionType: models.QuestionMultipleChoice},
		{QuestionNum: 2, CorrectAnswer: "B", Points: 2, QuestionType: models.QuestionMultipleChoice},
		{QuestionNum: 3, CorrectAnswer: "mitochondria", Points: 3, QuestionType: models.QuestionShortText},
		{QuestionNum: 4, CorrectAnswer: "2.5", Points: 3, QuestionType: models.QuestionNumeric},
	}
	if err := keys.Replace(ctx, quiz.ID, entries); err != nil {
		log.Fatalf("seed answer key: %v", err)
	}

	quizScores := []float64{9, 7, 8, 5}
	examScores := []float64{92, 74, 81, 58}
	for i, id := range studentIDs {
		qp, ep := quizScores[i], examScores[i]
		if err := grades.Upsert(ctx, &models.Grade{StudentID: id, AssignmentID: quiz.ID, Points: &qp}); err != nil {
			log.Fatalf("seed grade: %v", err)
		}
		if err := grades.Upsert(ctx, &models.Grade{StudentID: id, AssignmentID: exam.ID, Points: &ep}); err != nil {
			log.Fatalf("seed grade: %v", err)
		}
	}

	log.Printf("seeded class %s with %d students, 2 assignments and an answer key", class.ID, len(studentIDs))
}
