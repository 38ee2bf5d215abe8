package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	appAuth "github.com/extracenter/backend/internal/app/auth"
	"github.com/extracenter/backend/internal/app/models"
	"github.com/extracenter/backend/internal/pkg/apperrors"
)

// In-memory fakes for the repository interfaces. They reproduce the error
// semantics of the real repositories (sentinels for missing rows, conflicts
// for duplicate pairs) without a database.

type fakeUserRepo struct {
	users  map[int64]*models.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[int64]*models.User{}, nextID: 1}
}

func (f *fakeUserRepo) add(user *models.User) *models.User {
	if user.ID == 0 {
		user.ID = f.nextID
	}
	if user.ID >= f.nextID {
		f.nextID = user.ID + 1
	}
	f.users[user.ID] = user
	return user
}

func (f *fakeUserRepo) Create(_ context.Context, user *models.User) (int64, error) {
	for _, existing := range f.users {
		if existing.Email == user.Email {
			return 0, apperrors.ErrEmailAlreadyExists
		}
	}
	f.add(user)
	return user.ID, nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (f *fakeUserRepo) EmailExists(_ context.Context, email string) (bool, error) {
	for _, user := range f.users {
		if user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *models.User) error {
	if _, ok := f.users[user.ID]; !ok {
		return apperrors.ErrUserNotFound
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) UpdatePassword(_ context.Context, id int64, hash string) error {
	user, ok := f.users[id]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	user.Password = hash
	return nil
}

func (f *fakeUserRepo) SetLocked(_ context.Context, id int64, locked bool) error {
	user, ok := f.users[id]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	user.IsLocked = locked
	return nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.users[id]; !ok {
		return apperrors.ErrUserNotFound
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) GetAll(_ context.Context) ([]*models.User, error) {
	ids := make([]int64, 0, len(f.users))
	for id := range f.users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	users := make([]*models.User, 0, len(ids))
	for _, id := range ids {
		users = append(users, f.users[id])
	}
	return users, nil
}

func (f *fakeUserRepo) SearchStudents(_ context.Context, keyword string) ([]*models.User, error) {
	var out []*models.User
	for _, user := range f.users {
		if user.RoleType == models.RoleStudent {
			out = append(out, user)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeCenterRepo struct {
	centers map[int64]*models.Center
	// teaching maps a teacher to the centers they run courses at without
	// managing them.
	teaching map[int64][]int64
	nextID   int64
}

func newFakeCenterRepo() *fakeCenterRepo {
	return &fakeCenterRepo{
		centers:  map[int64]*models.Center{},
		teaching: map[int64][]int64{},
		nextID:   1,
	}
}

func (f *fakeCenterRepo) add(center *models.Center) *models.Center {
	if center.ID == 0 {
		center.ID = f.nextID
	}
	if center.ID >= f.nextID {
		f.nextID = center.ID + 1
	}
	f.centers[center.ID] = center
	return center
}

func (f *fakeCenterRepo) Create(_ context.Context, center *models.Center) (int64, error) {
	f.add(center)
	return center.ID, nil
}

func (f *fakeCenterRepo) GetByID(_ context.Context, id int64) (*models.Center, error) {
	center, ok := f.centers[id]
	if !ok {
		return nil, apperrors.ErrCenterNotFound
	}
	return center, nil
}

func (f *fakeCenterRepo) GetAll(_ context.Context) ([]*models.Center, error) {
	ids := make([]int64, 0, len(f.centers))
	for id := range f.centers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	centers := make([]*models.Center, 0, len(ids))
	for _, id := range ids {
		centers = append(centers, f.centers[id])
	}
	return centers, nil
}

func (f *fakeCenterRepo) GetByManagerID(_ context.Context, managerID int64) ([]*models.Center, error) {
	var out []*models.Center
	for _, center := range f.centers {
		if center.ManagerID == managerID {
			out = append(out, center)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeCenterRepo) GetTeachingByTeacherID(_ context.Context, teacherID int64) ([]*models.Center, error) {
	var out []*models.Center
	for _, id := range f.teaching[teacherID] {
		if center, ok := f.centers[id]; ok {
			out = append(out, center)
		}
	}
	return out, nil
}

func (f *fakeCenterRepo) GetTeachersByCenterID(_ context.Context, centerID int64) ([]*models.User, error) {
	return nil, nil
}

func (f *fakeCenterRepo) CountByManagerID(ctx context.Context, managerID int64) (int, error) {
	centers, _ := f.GetByManagerID(ctx, managerID)
	return len(centers), nil
}

func (f *fakeCenterRepo) Update(_ context.Context, center *models.Center) error {
	if _, ok := f.centers[center.ID]; !ok {
		return apperrors.ErrCenterNotFound
	}
	f.centers[center.ID] = center
	return nil
}

func (f *fakeCenterRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.centers[id]; !ok {
		return apperrors.ErrCenterNotFound
	}
	delete(f.centers, id)
	return nil
}

type memberPair struct {
	centerID, studentID int64
}

type fakeMembershipRepo struct {
	users *fakeUserRepo
	order []memberPair
	// listErrs makes ListStudentsByCenterID fail for specific centers, to
	// exercise partial aggregation.
	listErrs map[int64]error
}

func newFakeMembershipRepo(users *fakeUserRepo) *fakeMembershipRepo {
	return &fakeMembershipRepo{users: users, listErrs: map[int64]error{}}
}

func (f *fakeMembershipRepo) Assign(_ context.Context, centerID, studentID int64) error {
	for _, pair := range f.order {
		if pair.centerID == centerID && pair.studentID == studentID {
			return apperrors.ErrAlreadyMember
		}
	}
	f.order = append(f.order, memberPair{centerID, studentID})
	return nil
}

func (f *fakeMembershipRepo) Remove(_ context.Context, centerID, studentID int64) error {
	for i, pair := range f.order {
		if pair.centerID == centerID && pair.studentID == studentID {
			f.order = append(f.order[:i], f.order[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrNotMember
}

func (f *fakeMembershipRepo) Exists(_ context.Context, centerID, studentID int64) (bool, error) {
	for _, pair := range f.order {
		if pair.centerID == centerID && pair.studentID == studentID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeMembershipRepo) ListStudentsByCenterID(_ context.Context, centerID int64) ([]*models.User, error) {
	if err, ok := f.listErrs[centerID]; ok {
		return nil, err
	}
	var out []*models.User
	for _, pair := range f.order {
		if pair.centerID == centerID {
			if user, ok := f.users.users[pair.studentID]; ok {
				out = append(out, user)
			}
		}
	}
	return out, nil
}

func (f *fakeMembershipRepo) CountByStudentID(_ context.Context, studentID int64) (int, error) {
	count := 0
	for _, pair := range f.order {
		if pair.studentID == studentID {
			count++
		}
	}
	return count, nil
}

type fakeCourseRepo struct {
	courses map[int64]*models.Course
	nextID  int64
	// deleteGuard lets a test inject the dependent-enrollment rejection the
	// real repository performs.
	deleteGuard func(courseID int64) error
}

func newFakeCourseRepo() *fakeCourseRepo {
	return &fakeCourseRepo{courses: map[int64]*models.Course{}, nextID: 1}
}

func (f *fakeCourseRepo) add(course *models.Course) *models.Course {
	if course.ID == 0 {
		course.ID = f.nextID
	}
	if course.ID >= f.nextID {
		f.nextID = course.ID + 1
	}
	f.courses[course.ID] = course
	return course
}

func (f *fakeCourseRepo) Create(_ context.Context, course *models.Course) (int64, error) {
	f.add(course)
	return course.ID, nil
}

func (f *fakeCourseRepo) GetByID(_ context.Context, id int64) (*models.Course, error) {
	course, ok := f.courses[id]
	if !ok {
		return nil, apperrors.ErrCourseNotFound
	}
	return course, nil
}

func (f *fakeCourseRepo) GetByCenterID(_ context.Context, centerID int64) ([]*models.Course, error) {
	var out []*models.Course
	for _, course := range f.courses {
		if course.CenterID == centerID {
			out = append(out, course)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeCourseRepo) GetByTeacherID(_ context.Context, teacherID int64) ([]*models.Course, error) {
	var out []*models.Course
	for _, course := range f.courses {
		if course.TeacherID != nil && *course.TeacherID == teacherID {
			out = append(out, course)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeCourseRepo) CountByTeacherID(ctx context.Context, teacherID int64) (int, error) {
	courses, _ := f.GetByTeacherID(ctx, teacherID)
	return len(courses), nil
}

func (f *fakeCourseRepo) Update(_ context.Context, course *models.Course) error {
	if _, ok := f.courses[course.ID]; !ok {
		return apperrors.ErrCourseNotFound
	}
	f.courses[course.ID] = course
	return nil
}

func (f *fakeCourseRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.courses[id]; !ok {
		return apperrors.ErrCourseNotFound
	}
	if f.deleteGuard != nil {
		if err := f.deleteGuard(id); err != nil {
			return err
		}
	}
	delete(f.courses, id)
	return nil
}

func (f *fakeCourseRepo) SetPendingInvitation(_ context.Context, courseID, teacherID int64) error {
	course, ok := f.courses[courseID]
	if !ok {
		return apperrors.ErrCourseNotFound
	}
	tid := teacherID
	course.PendingTeacherID = &tid
	course.InvitationStatus = models.InvitationPending
	return nil
}

func (f *fakeCourseRepo) AcceptInvitation(_ context.Context, courseID, teacherID int64) (bool, error) {
	course, ok := f.courses[courseID]
	if !ok || course.InvitationStatus != models.InvitationPending ||
		course.PendingTeacherID == nil || *course.PendingTeacherID != teacherID {
		return false, nil
	}
	tid := teacherID
	course.TeacherID = &tid
	course.PendingTeacherID = nil
	course.InvitationStatus = models.InvitationAccepted
	return true, nil
}

func (f *fakeCourseRepo) RejectInvitation(_ context.Context, courseID, teacherID int64) (bool, error) {
	course, ok := f.courses[courseID]
	if !ok || course.InvitationStatus != models.InvitationPending ||
		course.PendingTeacherID == nil || *course.PendingTeacherID != teacherID {
		return false, nil
	}
	course.TeacherID = nil
	course.PendingTeacherID = nil
	course.InvitationStatus = models.InvitationRejected
	return true, nil
}

func (f *fakeCourseRepo) GetPendingInvitationsByTeacherID(_ context.Context, teacherID int64) ([]*models.Course, error) {
	var out []*models.Course
	for _, course := range f.courses {
		if course.InvitationStatus == models.InvitationPending &&
			course.PendingTeacherID != nil && *course.PendingTeacherID == teacherID {
			out = append(out, course)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeCourseRepo) TeacherTeachesAtCenter(_ context.Context, centerID, teacherID int64) (bool, error) {
	for _, course := range f.courses {
		if course.CenterID == centerID && course.TeacherID != nil && *course.TeacherID == teacherID {
			return true, nil
		}
	}
	return false, nil
}

type enrollPair struct {
	id                  int64
	courseID, studentID int64
}

type fakeEnrollmentRepo struct {
	users  *fakeUserRepo
	order  []enrollPair
	nextID int64
}

func newFakeEnrollmentRepo(users *fakeUserRepo) *fakeEnrollmentRepo {
	return &fakeEnrollmentRepo{users: users, nextID: 1}
}

func (f *fakeEnrollmentRepo) Create(_ context.Context, courseID, studentID int64) (int64, error) {
	for _, pair := range f.order {
		if pair.courseID == courseID && pair.studentID == studentID {
			return 0, apperrors.ErrAlreadyEnrolled
		}
	}
	id := f.nextID
	f.nextID++
	f.order = append(f.order, enrollPair{id, courseID, studentID})
	return id, nil
}

func (f *fakeEnrollmentRepo) GetIDByCourseAndStudent(_ context.Context, courseID, studentID int64) (int64, error) {
	for _, pair := range f.order {
		if pair.courseID == courseID && pair.studentID == studentID {
			return pair.id, nil
		}
	}
	return 0, apperrors.ErrNotEnrolled
}

func (f *fakeEnrollmentRepo) Delete(_ context.Context, courseID, studentID int64) error {
	for i, pair := range f.order {
		if pair.courseID == courseID && pair.studentID == studentID {
			f.order = append(f.order[:i], f.order[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrNotEnrolled
}

func (f *fakeEnrollmentRepo) Exists(_ context.Context, courseID, studentID int64) (bool, error) {
	for _, pair := range f.order {
		if pair.courseID == courseID && pair.studentID == studentID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeEnrollmentRepo) ListStudentsByCourseID(_ context.Context, courseID int64) ([]*models.User, error) {
	var out []*models.User
	for _, pair := range f.order {
		if pair.courseID == courseID {
			if user, ok := f.users.users[pair.studentID]; ok {
				out = append(out, user)
			}
		}
	}
	return out, nil
}

func (f *fakeEnrollmentRepo) CountByStudentID(_ context.Context, studentID int64) (int, error) {
	count := 0
	for _, pair := range f.order {
		if pair.studentID == studentID {
			count++
		}
	}
	return count, nil
}

type fakeClassSlotRepo struct {
	slots       map[int64]*models.ClassSlot
	courses     *fakeCourseRepo
	enrollments *fakeEnrollmentRepo
	users       *fakeUserRepo
	nextID      int64
}

func newFakeClassSlotRepo(courses *fakeCourseRepo, enrollments *fakeEnrollmentRepo, users *fakeUserRepo) *fakeClassSlotRepo {
	return &fakeClassSlotRepo{
		slots:       map[int64]*models.ClassSlot{},
		courses:     courses,
		enrollments: enrollments,
		users:       users,
		nextID:      1,
	}
}

func (f *fakeClassSlotRepo) Create(_ context.Context, slot *models.ClassSlot) (int64, error) {
	if slot.ID == 0 {
		slot.ID = f.nextID
	}
	if slot.ID >= f.nextID {
		f.nextID = slot.ID + 1
	}
	f.slots[slot.ID] = slot
	return slot.ID, nil
}

func (f *fakeClassSlotRepo) GetByID(_ context.Context, id int64) (*models.ClassSlot, error) {
	slot, ok := f.slots[id]
	if !ok {
		return nil, apperrors.ErrSlotNotFound
	}
	return slot, nil
}

func (f *fakeClassSlotRepo) GetByCourseID(_ context.Context, courseID int64) ([]*models.ClassSlot, error) {
	var out []*models.ClassSlot
	for _, slot := range f.slots {
		if slot.CourseID == courseID {
			out = append(out, slot)
		}
	}
	sortSlots(out)
	return out, nil
}

func (f *fakeClassSlotRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.slots[id]; !ok {
		return apperrors.ErrSlotNotFound
	}
	delete(f.slots, id)
	return nil
}

func (f *fakeClassSlotRepo) GetScheduleByTeacherID(_ context.Context, teacherID int64) ([]*models.ScheduleEntry, error) {
	var out []*models.ScheduleEntry
	for _, slot := range f.slots {
		course, ok := f.courses.courses[slot.CourseID]
		if !ok || course.TeacherID == nil || *course.TeacherID != teacherID {
			continue
		}
		out = append(out, f.scheduleEntry(slot, course))
	}
	sortSchedule(out)
	return out, nil
}

func (f *fakeClassSlotRepo) GetScheduleByStudentID(_ context.Context, studentID int64) ([]*models.ScheduleEntry, error) {
	var out []*models.ScheduleEntry
	for _, slot := range f.slots {
		course, ok := f.courses.courses[slot.CourseID]
		if !ok {
			continue
		}
		for _, pair := range f.enrollments.order {
			if pair.courseID == course.ID && pair.studentID == studentID {
				out = append(out, f.scheduleEntry(slot, course))
				break
			}
		}
	}
	sortSchedule(out)
	return out, nil
}

func (f *fakeClassSlotRepo) scheduleEntry(slot *models.ClassSlot, course *models.Course) *models.ScheduleEntry {
	entry := &models.ScheduleEntry{
		CourseID:   course.ID,
		CourseName: course.Name,
		DayOfWeek:  slot.DayOfWeek,
		StartTime:  slot.StartTime,
		EndTime:    slot.EndTime,
	}
	if course.TeacherID != nil {
		if teacher, ok := f.users.users[*course.TeacherID]; ok {
			entry.TeacherName = teacher.FirstName + " " + teacher.LastName
		}
	}
	return entry
}

func sortSlots(slots []*models.ClassSlot) {
	sort.Slice(slots, func(i, j int) bool {
		if slots[i].DayOfWeek != slots[j].DayOfWeek {
			return slots[i].DayOfWeek < slots[j].DayOfWeek
		}
		return slots[i].StartTime < slots[j].StartTime
	})
}

func sortSchedule(entries []*models.ScheduleEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].DayOfWeek != entries[j].DayOfWeek {
			return entries[i].DayOfWeek < entries[j].DayOfWeek
		}
		return entries[i].StartTime < entries[j].StartTime
	})
}

type fakeAttendanceRepo struct {
	records     []*models.Attendance
	enrollments *fakeEnrollmentRepo
	users       *fakeUserRepo
	nextID      int64
}

func newFakeAttendanceRepo(enrollments *fakeEnrollmentRepo, users *fakeUserRepo) *fakeAttendanceRepo {
	return &fakeAttendanceRepo{enrollments: enrollments, users: users, nextID: 1}
}

func (f *fakeAttendanceRepo) Upsert(_ context.Context, record *models.Attendance) error {
	for _, existing := range f.records {
		if existing.EnrollmentID == record.EnrollmentID &&
			existing.ClassSlotID == record.ClassSlotID &&
			existing.Date.Equal(record.Date) {
			existing.IsPresent = record.IsPresent
			existing.Note = record.Note
			return nil
		}
	}
	record.ID = f.nextID
	f.nextID++
	f.records = append(f.records, record)
	return nil
}

func (f *fakeAttendanceRepo) ListBySlotAndDate(_ context.Context, classSlotID int64, date time.Time) ([]*models.AttendanceEntry, error) {
	var out []*models.AttendanceEntry
	for _, record := range f.records {
		if record.ClassSlotID != classSlotID || !record.Date.Equal(date) {
			continue
		}
		entry := &models.AttendanceEntry{
			AttendanceID: record.ID,
			IsPresent:    record.IsPresent,
			Note:         record.Note,
		}
		for _, pair := range f.enrollments.order {
			if pair.id == record.EnrollmentID {
				entry.StudentID = pair.studentID
				if student, ok := f.users.users[pair.studentID]; ok {
					entry.FirstName = student.FirstName
					entry.LastName = student.LastName
				}
				break
			}
		}
		out = append(out, entry)
	}
	return out, nil
}

// fixture wires the fakes into a resolver plus services the way bootstrap
// wires the real repositories.
type fixture struct {
	users       *fakeUserRepo
	centers     *fakeCenterRepo
	memberships *fakeMembershipRepo
	courses     *fakeCourseRepo
	enrollments *fakeEnrollmentRepo
	slots       *fakeClassSlotRepo
	attendance  *fakeAttendanceRepo
	authz       *appAuth.AuthorizationService
}

func newFixture() *fixture {
	users := newFakeUserRepo()
	centers := newFakeCenterRepo()
	courses := newFakeCourseRepo()
	enrollments := newFakeEnrollmentRepo(users)
	f := &fixture{
		users:       users,
		centers:     centers,
		memberships: newFakeMembershipRepo(users),
		courses:     courses,
		enrollments: enrollments,
		slots:       newFakeClassSlotRepo(courses, enrollments, users),
		attendance:  newFakeAttendanceRepo(enrollments, users),
		authz:       appAuth.NewAuthorizationService(users, centers, courses),
	}
	return f
}

func (f *fixture) addUser(id int64, role models.RoleType) *models.User {
	return f.users.add(&models.User{
		ID:        id,
		FirstName: fmt.Sprintf("User%d", id),
		LastName:  "Test",
		Email:     fmt.Sprintf("user%d@ecm.edu.vn", id),
		RoleType:  role,
		IsEnabled: true,
	})
}

func (f *fixture) addCenter(id, managerID int64) *models.Center {
	return f.centers.add(&models.Center{
		ID:        id,
		Name:      fmt.Sprintf("Center %d", id),
		ManagerID: managerID,
	})
}
