package main

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"internhub/internal/shared"
)

// Test account and subject constants
const (
	// User IDs
	OfficeID1    = "office-001"
	CommitteeID1 = "committee-001"
	CommitteeID2 = "committee-002"
	FacultyID1   = "faculty-001"
	FacultyID2   = "faculty-002"
	StudentID1   = "student-001" // Minh Tran, internship
	StudentID2   = "student-002" // Lan Pham, internship
	StudentID3   = "student-003" // Huy Nguyen, thesis

	// Common Credentials
	CommonPassword = "password"

	// Current Academic Period
	CurrentSemester = "HK1 2025-2026"

	// Subject IDs
	InternshipSubjectID = "SUBJ-INTERN-HK1-2526"
	ThesisSubjectID     = "SUBJ-THESIS-HK1-2526"
)

// AssignmentSeed pairs a student with a supervisor for one subject
type AssignmentSeed struct {
	ID           string
	StudentID    string
	SupervisorID string
	SubjectID    string
	WorkType     string
	Company      *shared.CompanyInfo
	ProjectTopic string
}

func main() {
	log.Println("Starting Database Seeder...")

	if err := shared.LoadEnv(".env"); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	cfg, err := shared.LoadServiceConfig("seeder")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	client, db, err := shared.ConnectMongoDB(&cfg.MongoDB)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer shared.DisconnectMongoDB(client)

	// Drop all collections to ensure a clean start
	if err := db.Drop(context.Background()); err != nil {
		log.Fatalf("Failed to drop database: %v", err)
	}
	log.Println("Database cleared successfully.")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// --- 1. Seed Users ---
	seedUsers(ctx, db, cfg.Security.BCryptCost)

	// --- 2. Seed Subjects ---
	seedSubjects(ctx, db)

	// --- 3. Seed Assignments ---
	assignmentSeeds := []AssignmentSeed{
		{"ASG-001", StudentID1, FacultyID1, InternshipSubjectID, shared.WorkTypeInternship,
			&shared.CompanyInfo{Name: "FPT Software", Contact: "hr@fpt.example.com"}, "Internal HR portal"},
		{"ASG-002", StudentID2, FacultyID1, InternshipSubjectID, shared.WorkTypeInternship,
			&shared.CompanyInfo{Name: "VNG Corporation", Contact: "intern@vng.example.com"}, "Payment gateway monitoring"},
		{"ASG-003", StudentID3, FacultyID2, ThesisSubjectID, shared.WorkTypeThesis,
			nil, "Vietnamese text summarization with transformers"},
	}
	seedAssignments(ctx, db, assignmentSeeds)

	log.Println("All data seeding completed successfully.")
}

// ============================================================================
// SEEDING FUNCTIONS
// ============================================================================

func seedUsers(ctx context.Context, db *mongo.Database, bcryptCost int) {
	log.Println("--- Seeding Users ---")
	usersCol := db.Collection(shared.ColUsers)
	now := time.Now()

	users := []shared.User{
		{ID: OfficeID1, Name: "Training Office", Email: "office@example.com", Role: shared.RoleTrainingOffice, IsActive: true, CreatedAt: now},
		{ID: CommitteeID1, Name: "Dr. Nguyen Van An", Email: "committee1@example.com", Role: shared.RoleCommittee, IsActive: true, CreatedAt: now, Department: "Computer Science"},
		{ID: CommitteeID2, Name: "Dr. Le Thi Binh", Email: "committee2@example.com", Role: shared.RoleCommittee, IsActive: true, CreatedAt: now, Department: "Computer Science"},
		{ID: FacultyID1, Name: "Dr. Pham Quang Cuong", Email: "faculty1@example.com", Role: shared.RoleFaculty, IsActive: true, CreatedAt: now, Department: "Software Engineering"},
		{ID: FacultyID2, Name: "Dr. Tran Thu Dao", Email: "faculty2@example.com", Role: shared.RoleFaculty, IsActive: true, CreatedAt: now, Department: "Computer Science"},
		{ID: StudentID1, Name: "Minh Tran", Email: "student1@example.com", Role: shared.RoleStudent, IsActive: true, CreatedAt: now, StudentCode: "20120001", ClassName: "SE2021"},
		{ID: StudentID2, Name: "Lan Pham", Email: "student2@example.com", Role: shared.RoleStudent, IsActive: true, CreatedAt: now, StudentCode: "20120002", ClassName: "SE2021"},
		{ID: StudentID3, Name: "Huy Nguyen", Email: "student3@example.com", Role: shared.RoleStudent, IsActive: true, CreatedAt: now, StudentCode: "20120003", ClassName: "CS2021"},
	}

	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(CommonPassword), bcryptCost)
	if err != nil {
		log.Fatalf("Error hashing seed password: %v", err)
	}
	hashedPassword := string(hashedBytes)

	for _, u := range users {
		u.PasswordHash = hashedPassword
		filter := bson.M{"email": u.Email}
		update := bson.M{"$set": u}
		opts := options.Update().SetUpsert(true)

		if _, err := usersCol.UpdateOne(ctx, filter, update, opts); err != nil {
			log.Fatalf("Error seeding user %s: %v", u.Email, err)
		}
		log.Printf("Seeded %s: %s", u.Role, u.Email)
	}
}

func seedSubjects(ctx context.Context, db *mongo.Database) {
	log.Println("--- Seeding Subjects ---")
	subjectsCol := db.Collection(shared.ColSubjects)
	now := time.Now()

	subjects := []shared.Subject{
		{
			ID:           InternshipSubjectID,
			Code:         "SE-INTERN",
			Name:         "Graduation Internship",
			Semester:     CurrentSemester,
			CommitteeIDs: []string{CommitteeID1, CommitteeID2},
			IsOpen:       true,
			CreatedAt:    now,
		},
		{
			ID:           ThesisSubjectID,
			Code:         "CS-THESIS",
			Name:         "Graduation Thesis",
			Semester:     CurrentSemester,
			CommitteeIDs: []string{CommitteeID2},
			IsOpen:       true,
			CreatedAt:    now,
		},
	}

	for _, s := range subjects {
		if _, err := subjectsCol.InsertOne(ctx, s); err != nil {
			log.Fatalf("Error seeding subject %s: %v", s.Code, err)
		}
		log.Printf("Seeded Subject: %s (%s)", s.Code, s.ID)
	}
}

func seedAssignments(ctx context.Context, db *mongo.Database, seeds []AssignmentSeed) {
	log.Println("--- Seeding Assignments ---")
	assignmentsCol := db.Collection(shared.ColAssignments)
	now := time.Now()

	for _, s := range seeds {
		assignment := shared.Assignment{
			ID:           s.ID,
			StudentID:    s.StudentID,
			SupervisorID: s.SupervisorID,
			SubjectID:    s.SubjectID,
			WorkType:     s.WorkType,
			Company:      s.Company,
			ProjectTopic: s.ProjectTopic,
			StartDate:    now.AddDate(0, 0, -14),
			EndDate:      now.AddDate(0, 3, 0),
			CreatedAt:    now,
		}

		if _, err := assignmentsCol.InsertOne(ctx, assignment); err != nil {
			log.Fatalf("Error seeding assignment %s: %v", s.ID, err)
		}
		log.Printf("Seeded Assignment: %s -> %s (%s)", s.StudentID, s.SupervisorID, s.WorkType)
	}
}
