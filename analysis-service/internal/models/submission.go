package models

import "time"

type Submission struct {
	ID             int64     `json:"id" db:"id"`
	StudentName    string    `json:"studentName" db:"student_name"`
	AssignmentName string    `json:"assignmentName" db:"assignment_name"`
	FileName       string    `json:"fileName" db:"file_name"`
	Content        string    `json:"-" db:"content"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
}
