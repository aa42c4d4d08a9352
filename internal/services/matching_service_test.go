package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"cvmatch_backend/internal/models"
	"cvmatch_backend/internal/repositories"
	"cvmatch_backend/internal/services/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

// --- in-memory фейки репозиториев ---

type fakeProjectRepo struct {
	mu       sync.Mutex
	projects map[string]*models.SearchProject
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{projects: make(map[string]*models.SearchProject)}
}

func (r *fakeProjectRepo) Create(project *models.SearchProject) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if project.ID == "" {
		project.ID = fmt.Sprintf("project-%d", len(r.projects)+1)
	}
	cp := *project
	r.projects[project.ID] = &cp
	return nil
}

func (r *fakeProjectRepo) FindByID(id string) (*models.SearchProject, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.projects[id]
	if !ok {
		return nil, repositories.ErrProjectNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProjectRepo) FindByOwner(ownerID string, limit, offset int) ([]models.SearchProject, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.SearchProject
	for _, p := range r.projects {
		if p.OwnerID == ownerID {
			out = append(out, *p)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeProjectRepo) UpdateFields(id string, fields map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.projects[id]
	if !ok {
		return repositories.ErrProjectNotFound
	}
	if v, ok := fields["name"]; ok {
		p.Name = v.(string)
	}
	if v, ok := fields["description"]; ok {
		p.Description = v.(string)
	}
	if v, ok := fields["status"]; ok {
		p.Status = v.(models.ProjectStatus)
	}
	p.UpdatedAt = time.Now()
	return nil
}

func (r *fakeProjectRepo) UpdateCriteria(id string, criteria models.ProjectCriteria) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.projects[id]
	if !ok {
		return repositories.ErrProjectNotFound
	}
	p.Criteria = datatypes.NewJSONType(criteria)
	p.UpdatedAt = time.Now()
	return nil
}

func (r *fakeProjectRepo) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.projects[id]; !ok {
		return repositories.ErrProjectNotFound
	}
	delete(r.projects, id)
	return nil
}

type fakeCVRepo struct {
	mu    sync.Mutex
	cvs   map[string]*models.ProjectCV
	order []string
}

func newFakeCVRepo() *fakeCVRepo {
	return &fakeCVRepo{cvs: make(map[string]*models.ProjectCV)}
}

func (r *fakeCVRepo) Create(cv *models.ProjectCV) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cv.ID == "" {
		cv.ID = fmt.Sprintf("cv-%d", len(r.order)+1)
	}
	cp := *cv
	r.cvs[cv.ID] = &cp
	r.order = append(r.order, cv.ID)
	return nil
}

func (r *fakeCVRepo) FindByID(id string) (*models.ProjectCV, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cv, ok := r.cvs[id]
	if !ok {
		return nil, repositories.ErrProjectCVNotFound
	}
	cp := *cv
	return &cp, nil
}

func (r *fakeCVRepo) FindByProject(projectID string) ([]models.ProjectCV, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.ProjectCV
	for _, id := range r.order {
		if r.cvs[id].ProjectID == projectID {
			out = append(out, *r.cvs[id])
		}
	}
	return out, nil
}

func (r *fakeCVRepo) CountByProject(projectID string) (int64, error) {
	cvs, _ := r.FindByProject(projectID)
	return int64(len(cvs)), nil
}

func (r *fakeCVRepo) UpdateScore(id string, score float64, ranking int, updatedAt time.Time) error {
	// Узкое окно между чтением и записью, чтобы несериализованные конкурентные
	// прогоны успели перемешать записи
	time.Sleep(time.Millisecond)

	r.mu.Lock()
	defer r.mu.Unlock()
	cv, ok := r.cvs[id]
	if !ok {
		return repositories.ErrProjectCVNotFound
	}
	s, rk := score, ranking
	cv.Score = &s
	cv.Ranking = &rk
	cv.UpdatedAt = updatedAt
	return nil
}

func (r *fakeCVRepo) ResetScores(projectID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, cv := range r.cvs {
		if cv.ProjectID == projectID {
			cv.Score = nil
			cv.Ranking = nil
			cv.UpdatedAt = time.Now()
		}
	}
	return nil
}

func (r *fakeCVRepo) SetParsedData(id string, data *models.ParsedCVData) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cv, ok := r.cvs[id]
	if !ok {
		return repositories.ErrProjectCVNotFound
	}
	cv.ParsedData = data
	cv.UpdatedAt = time.Now()
	return nil
}

func (r *fakeCVRepo) FindUnparsed(limit int) ([]models.ProjectCV, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.ProjectCV
	for _, id := range r.order {
		if r.cvs[id].ParsedData == nil {
			out = append(out, *r.cvs[id])
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (r *fakeCVRepo) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.cvs[id]; !ok {
		return repositories.ErrProjectCVNotFound
	}
	delete(r.cvs, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// --- тестовые данные ---

func testCriteria() models.ProjectCriteria {
	minYears := 3.0
	role := "Software Engineer"
	maxChanges := 1.0
	return models.ProjectCriteria{
		MinimumYearsExperience: &minYears,
		TargetRole:             &role,
		RequiredSkills:         []string{"JavaScript", "React"},
		PreferredSkills:        []string{"TypeScript", "Node.js"},
		TargetIndustries:       []string{"Technology"},
		MaxJobChangesPerYear:   &maxChanges,
		Weights: models.CriteriaWeights{
			YearsExperience: 25,
			RoleMatch:       25,
			SkillsMatch:     30,
			IndustryMatch:   10,
			JobStability:    10,
		},
	}
}

func parsedCV(years, changes float64, roles, skills, industries []string) *models.ParsedCVData {
	return &models.ParsedCVData{
		TotalYearsExperience: &years,
		JobChangesFrequency:  &changes,
		RolesPositions:       roles,
		Skills:               skills,
		DominantIndustries:   industries,
	}
}

func seedProject(t *testing.T, projectRepo *fakeProjectRepo, criteria models.ProjectCriteria) *models.SearchProject {
	t.Helper()
	project := &models.SearchProject{
		OwnerID:  "owner-1",
		Name:     "Backend hiring",
		Status:   models.ProjectStatusActive,
		Criteria: datatypes.NewJSONType(criteria),
	}
	require.NoError(t, projectRepo.Create(project))
	return project
}

func seedCV(t *testing.T, cvRepo *fakeCVRepo, projectID string, parsed *models.ParsedCVData) *models.ProjectCV {
	t.Helper()
	cv := &models.ProjectCV{
		ProjectID:  projectID,
		OwnerID:    "owner-1",
		FileName:   "cv.pdf",
		FilePath:   "/uploads/cv.pdf",
		ParsedData: parsed,
	}
	require.NoError(t, cvRepo.Create(cv))
	return cv
}

// --- тесты ---

func TestRunMatching_RanksCandidates(t *testing.T) {
	projectRepo := newFakeProjectRepo()
	cvRepo := newFakeCVRepo()
	service := NewMatchingService(projectRepo, cvRepo, NewProjectLocks())

	project := seedProject(t, projectRepo, testCriteria())

	excellent := seedCV(t, cvRepo, project.ID, parsedCV(5, 0.2,
		[]string{"Software Engineer"},
		[]string{"JavaScript", "React", "TypeScript", "Node.js"},
		[]string{"Technology"}))
	average := seedCV(t, cvRepo, project.ID, parsedCV(2, 0.5,
		[]string{"Web Developer"},
		[]string{"JavaScript"},
		[]string{"Finance"}))
	poor := seedCV(t, cvRepo, project.ID, parsedCV(1, 2.0,
		[]string{"Chef"},
		[]string{"Cooking"},
		[]string{"Hospitality"}))

	results, err := service.RunMatching(context.Background(), project.ID)
	require.NoError(t, err)
	require.Len(t, results.Results, 3)
	assert.Equal(t, 3, results.TotalCandidates)

	assert.Equal(t, excellent.ID, results.Results[0].CV.ID)
	assert.Equal(t, average.ID, results.Results[1].CV.ID)
	assert.Equal(t, poor.ID, results.Results[2].CV.ID)

	for i, res := range results.Results {
		assert.Equal(t, i+1, res.Ranking)
		assert.GreaterOrEqual(t, res.Score, 0.0)
		assert.LessOrEqual(t, res.Score, 100.0)
	}

	// Сильный кандидат должен отрываться от слабого с запасом
	assert.Greater(t, results.Results[0].Score, results.Results[2].Score*1.5)

	// Highlights несут доказательства по каждому измерению
	top := results.Results[0].Highlights
	assert.Equal(t, 100.0, top.Role.Score)
	assert.Contains(t, top.Role.MatchedRoles, "Software Engineer")
	assert.ElementsMatch(t, []string{"JavaScript", "React", "TypeScript", "Node.js"}, top.Skills.ExactMatches)
	assert.Equal(t, 100.0, top.Stability.Score)

	// Пары (score, ranking) персистятся
	stored, err := cvRepo.FindByID(excellent.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.Score)
	require.NotNil(t, stored.Ranking)
	assert.Equal(t, 1, *stored.Ranking)
	assert.Equal(t, results.Results[0].Score, *stored.Score)
}

func TestRunMatching_SkipsUnparsedCVs(t *testing.T) {
	projectRepo := newFakeProjectRepo()
	cvRepo := newFakeCVRepo()
	service := NewMatchingService(projectRepo, cvRepo, NewProjectLocks())

	project := seedProject(t, projectRepo, testCriteria())
	parsed := seedCV(t, cvRepo, project.ID, parsedCV(4, 0.5,
		[]string{"Software Engineer"}, []string{"JavaScript"}, []string{"Technology"}))
	unparsed := seedCV(t, cvRepo, project.ID, nil)

	results, err := service.RunMatching(context.Background(), project.ID)
	require.NoError(t, err)
	require.Len(t, results.Results, 1)
	assert.Equal(t, parsed.ID, results.Results[0].CV.ID)
	assert.Equal(t, 1, results.TotalCandidates)

	// Непропарсенный CV не тронут: score/ranking остаются NULL
	stored, err := cvRepo.FindByID(unparsed.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.Score)
	assert.Nil(t, stored.Ranking)
}

func TestRunMatching_EmptyProject(t *testing.T) {
	projectRepo := newFakeProjectRepo()
	cvRepo := newFakeCVRepo()
	service := NewMatchingService(projectRepo, cvRepo, NewProjectLocks())

	project := seedProject(t, projectRepo, testCriteria())

	results, err := service.RunMatching(context.Background(), project.ID)
	require.NoError(t, err)
	assert.Empty(t, results.Results)
	assert.Equal(t, 0, results.TotalCandidates)
}

func TestRunMatching_ProjectNotFound(t *testing.T) {
	service := NewMatchingService(newFakeProjectRepo(), newFakeCVRepo(), NewProjectLocks())

	_, err := service.RunMatching(context.Background(), "missing")
	assert.ErrorIs(t, err, repositories.ErrProjectNotFound)
}

func TestRunMatching_Idempotent(t *testing.T) {
	projectRepo := newFakeProjectRepo()
	cvRepo := newFakeCVRepo()
	service := NewMatchingService(projectRepo, cvRepo, NewProjectLocks())

	project := seedProject(t, projectRepo, testCriteria())
	seedCV(t, cvRepo, project.ID, parsedCV(5, 0.2,
		[]string{"Software Engineer"}, []string{"JavaScript", "React"}, []string{"Technology"}))
	seedCV(t, cvRepo, project.ID, parsedCV(2, 0.5,
		[]string{"Web Developer"}, []string{"JavaScript"}, []string{"Finance"}))

	first, err := service.RunMatching(context.Background(), project.ID)
	require.NoError(t, err)
	second, err := service.RunMatching(context.Background(), project.ID)
	require.NoError(t, err)

	require.Len(t, second.Results, len(first.Results))
	for i := range first.Results {
		assert.Equal(t, first.Results[i].CV.ID, second.Results[i].CV.ID)
		assert.Equal(t, first.Results[i].Score, second.Results[i].Score)
		assert.Equal(t, first.Results[i].Ranking, second.Results[i].Ranking)
	}
}

func TestRunMatching_TieBreakFollowsUploadOrder(t *testing.T) {
	projectRepo := newFakeProjectRepo()
	cvRepo := newFakeCVRepo()
	service := NewMatchingService(projectRepo, cvRepo, NewProjectLocks())

	project := seedProject(t, projectRepo, testCriteria())

	// Идентичные кандидаты - одинаковый score, порядок загрузки решает
	data := parsedCV(5, 0.2, []string{"Software Engineer"}, []string{"JavaScript", "React"}, []string{"Technology"})
	first := seedCV(t, cvRepo, project.ID, data)
	second := seedCV(t, cvRepo, project.ID, data)

	results, err := service.RunMatching(context.Background(), project.ID)
	require.NoError(t, err)
	require.Len(t, results.Results, 2)

	assert.Equal(t, results.Results[0].Score, results.Results[1].Score)
	assert.Equal(t, first.ID, results.Results[0].CV.ID)
	assert.Equal(t, second.ID, results.Results[1].CV.ID)
	assert.Equal(t, 1, results.Results[0].Ranking)
	assert.Equal(t, 2, results.Results[1].Ranking)
}

func TestRunMatching_ConcurrentRunsDoNotInterleave(t *testing.T) {
	projectRepo := newFakeProjectRepo()
	cvRepo := newFakeCVRepo()
	service := NewMatchingService(projectRepo, cvRepo, NewProjectLocks())

	project := seedProject(t, projectRepo, testCriteria())
	var ids []string
	for i := 0; i < 5; i++ {
		cv := seedCV(t, cvRepo, project.ID, parsedCV(float64(i+1), 0.5,
			[]string{"Software Engineer"}, []string{"JavaScript"}, []string{"Technology"}))
		ids = append(ids, cv.ID)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := service.RunMatching(context.Background(), project.ID)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	// Каждый прогон пишет все CV с единым processedAt. Сериализация прогонов
	// означает, что финальное состояние целиком принадлежит одному прогону.
	var stamp time.Time
	for i, id := range ids {
		stored, err := cvRepo.FindByID(id)
		require.NoError(t, err)
		require.NotNil(t, stored.Score)
		require.NotNil(t, stored.Ranking)
		if i == 0 {
			stamp = stored.UpdatedAt
		} else {
			assert.Equal(t, stamp, stored.UpdatedAt, "cv %s written by a different run", id)
		}
	}
}

func TestEvaluateCV_WeightedTotal(t *testing.T) {
	service := NewMatchingService(newFakeProjectRepo(), newFakeCVRepo(), NewProjectLocks())

	criteria := testCriteria()
	parsed := parsedCV(5, 0.2,
		[]string{"Software Engineer"},
		[]string{"JavaScript", "React", "TypeScript", "Node.js"},
		[]string{"Technology"})

	score, highlights := service.EvaluateCV(criteria, parsed)

	// exp 93.33*0.25 + role 100*0.25 + skills 100*0.30 + industry 100*0.10 + stability 100*0.10
	assert.InDelta(t, 98.33, score, 0.01)
	assert.InDelta(t, 93.33, highlights.Experience.Score, 0.01)
	assert.Equal(t, 100.0, highlights.Skills.Score)
	assert.Equal(t, 100.0, highlights.Industry.Score)
}

func TestEvaluateCV_EmptyParsedData(t *testing.T) {
	service := NewMatchingService(newFakeProjectRepo(), newFakeCVRepo(), NewProjectLocks())

	score, highlights := service.EvaluateCV(testCriteria(), &models.ParsedCVData{})

	// Нейтральные 50 только там, где данных нет с обеих сторон требований
	assert.Equal(t, 50.0, highlights.Experience.Score)
	assert.Equal(t, 0.0, highlights.Role.Score)
	assert.Equal(t, 0.0, highlights.Skills.Score)
	assert.Equal(t, 0.0, highlights.Industry.Score)
	assert.Equal(t, 50.0, highlights.Stability.Score)
	assert.InDelta(t, 17.5, score, 0.01)
}

func TestProjectUpdate_CriteriaChangeResetsScores(t *testing.T) {
	projectRepo := newFakeProjectRepo()
	cvRepo := newFakeCVRepo()
	locks := NewProjectLocks()
	matching := NewMatchingService(projectRepo, cvRepo, locks)

	project := seedProject(t, projectRepo, testCriteria())
	cv := seedCV(t, cvRepo, project.ID, parsedCV(5, 0.2,
		[]string{"Software Engineer"}, []string{"JavaScript", "React"}, []string{"Technology"}))

	_, err := matching.RunMatching(context.Background(), project.ID)
	require.NoError(t, err)

	stored, err := cvRepo.FindByID(cv.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.Score)

	projectService := NewProjectService(projectRepo, cvRepo, nil, locks)

	t.Run("non-criteria update keeps scores", func(t *testing.T) {
		name := "Renamed project"
		_, err := projectService.Update(context.Background(), project.ID, &dto.UpdateProjectRequest{Name: &name})
		require.NoError(t, err)

		stored, err := cvRepo.FindByID(cv.ID)
		require.NoError(t, err)
		assert.NotNil(t, stored.Score)
		assert.NotNil(t, stored.Ranking)
	})

	t.Run("criteria replacement invalidates scores", func(t *testing.T) {
		newCriteria := testCriteria()
		newCriteria.RequiredSkills = []string{"Go", "PostgreSQL"}

		updated, err := projectService.Update(context.Background(), project.ID, &dto.UpdateProjectRequest{Criteria: &newCriteria})
		require.NoError(t, err)
		assert.Equal(t, []string{"Go", "PostgreSQL"}, updated.GetCriteria().RequiredSkills)

		stored, err := cvRepo.FindByID(cv.ID)
		require.NoError(t, err)
		assert.Nil(t, stored.Score)
		assert.Nil(t, stored.Ranking)
		// parsed_data не трогается
		assert.NotNil(t, stored.ParsedData)
	})
}

// gatedCVRepo держит первый UpdateScore открытым до сигнала release -
// имитация прогона, застрявшего посреди write-back
type gatedCVRepo struct {
	*fakeCVRepo
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (r *gatedCVRepo) UpdateScore(id string, score float64, ranking int, updatedAt time.Time) error {
	r.once.Do(func() {
		close(r.started)
		<-r.release
	})
	return r.fakeCVRepo.UpdateScore(id, score, ranking, updatedAt)
}

func TestProjectUpdate_CriteriaEditWaitsForRunningMatch(t *testing.T) {
	projectRepo := newFakeProjectRepo()
	cvRepo := &gatedCVRepo{
		fakeCVRepo: newFakeCVRepo(),
		started:    make(chan struct{}),
		release:    make(chan struct{}),
	}
	locks := NewProjectLocks()
	matching := NewMatchingService(projectRepo, cvRepo, locks)
	projectService := NewProjectService(projectRepo, cvRepo, nil, locks)

	project := seedProject(t, projectRepo, testCriteria())
	seedCV(t, cvRepo.fakeCVRepo, project.ID, parsedCV(5, 0.2,
		[]string{"Software Engineer"}, []string{"JavaScript", "React"}, []string{"Technology"}))
	seedCV(t, cvRepo.fakeCVRepo, project.ID, parsedCV(2, 0.5,
		[]string{"Web Developer"}, []string{"JavaScript"}, []string{"Finance"}))

	runDone := make(chan struct{})
	go func() {
		defer close(runDone)
		_, err := matching.RunMatching(context.Background(), project.ID)
		assert.NoError(t, err)
	}()

	<-cvRepo.started

	updateDone := make(chan struct{})
	go func() {
		defer close(updateDone)
		newCriteria := testCriteria()
		newCriteria.RequiredSkills = []string{"Go", "PostgreSQL"}
		_, err := projectService.Update(context.Background(), project.ID,
			&dto.UpdateProjectRequest{Criteria: &newCriteria})
		assert.NoError(t, err)
	}()

	// Замена критериев обязана ждать лок, пока прогон не допишет все пары
	select {
	case <-updateDone:
		t.Fatal("criteria update completed while a matching run was mid write-back")
	case <-time.After(50 * time.Millisecond):
	}

	close(cvRepo.release)
	<-runDone
	<-updateDone

	// Сброс лег ПОСЛЕ write-back: скоры старых критериев не выданы за актуальные
	cvs, err := cvRepo.FindByProject(project.ID)
	require.NoError(t, err)
	require.Len(t, cvs, 2)
	for i := range cvs {
		assert.Nil(t, cvs[i].Score)
		assert.Nil(t, cvs[i].Ranking)
		assert.NotNil(t, cvs[i].ParsedData)
	}
}

func TestEvaluateCV_NilParsedData(t *testing.T) {
	service := NewMatchingService(newFakeProjectRepo(), newFakeCVRepo(), NewProjectLocks())

	// nil эквивалентен пустому документу, без паники
	score, highlights := service.EvaluateCV(testCriteria(), nil)
	emptyScore, emptyHighlights := service.EvaluateCV(testCriteria(), &models.ParsedCVData{})

	assert.Equal(t, emptyScore, score)
	assert.Equal(t, emptyHighlights, highlights)
}
