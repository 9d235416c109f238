package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"drive-assistant-be/internal/dto"
	"drive-assistant-be/internal/entity"
	"drive-assistant-be/internal/pkg/logger"
	"drive-assistant-be/internal/pkg/mailer"
	"drive-assistant-be/internal/repository/memory"
	"drive-assistant-be/internal/repository/specification"
	"drive-assistant-be/internal/repository/unitofwork"
	"drive-assistant-be/pkg/ai"
	"drive-assistant-be/pkg/events"
	pktNats "drive-assistant-be/pkg/nats"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type IReportService interface {
	GenerateReport(ctx context.Context, userId uuid.UUID, request *dto.GenerateReportRequest) (*dto.GenerateReportResponse, error)
	ListReports(ctx context.Context, userId uuid.UUID) (*dto.ListReportsResponse, error)
}

// reportService turns the document open in a conversation into a
// persisted impact analysis report. Empty form fields are pre-filled
// from the document; values the user already typed win.
type reportService struct {
	uowFactory   unitofwork.RepositoryFactory
	aiService    *ai.Service
	sessionRepo  *memory.SessionRepository
	emailService mailer.IEmailService
	publisher    *pktNats.Publisher
	log          logger.ILogger
}

func NewReportService(
	uowFactory unitofwork.RepositoryFactory,
	aiService *ai.Service,
	sessionRepo *memory.SessionRepository,
	emailService mailer.IEmailService,
	publisher *pktNats.Publisher,
	log logger.ILogger,
) IReportService {
	return &reportService{
		uowFactory:   uowFactory,
		aiService:    aiService,
		sessionRepo:  sessionRepo,
		emailService: emailService,
		publisher:    publisher,
		log:          log,
	}
}

func (rs *reportService) GenerateReport(ctx context.Context, userId uuid.UUID, request *dto.GenerateReportRequest) (*dto.GenerateReportResponse, error) {
	state, found := rs.sessionRepo.Get(request.ChatSessionId.String())
	if !found || state.UserId != userId.String() {
		return nil, errors.New("session not found or access denied")
	}
	if state.ActiveDocument == nil {
		return nil, errors.New("no document is open in this conversation")
	}

	form := request.Form
	if formIsEmpty(form) {
		extracted, err := rs.aiService.ExtractReportForm(ctx, state.ActiveDocument.Content)
		if err == nil && extracted != nil {
			form = dto.ReportFormDTO{
				PMNumber:         extracted.PMNumber,
				CRNumber:         extracted.CRNumber,
				IssueDescription: extracted.IssueDescription,
				SystemImpacts:    extracted.SystemImpacts,
				Risks:            extracted.Risks,
			}
		}
	}

	formData, err := json.Marshal(form)
	if err != nil {
		return nil, err
	}

	report := &entity.GeneratedReport{
		Id:           uuid.New(),
		UserId:       userId,
		DocumentName: state.ActiveDocument.Name,
		CRNumber:     form.CRNumber,
		FormData:     datatypes.JSON(formData),
		CreatedAt:    time.Now(),
	}

	uow := rs.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ReportRepository().Create(ctx, report); err != nil {
		return nil, err
	}

	if rs.publisher != nil {
		event := events.NewReportCreated(userId.String(), report.DocumentName, report.CRNumber)
		if err := rs.publisher.Publish(ctx, event); err != nil {
			rs.log.Warn("report", "failed to publish REPORT_CREATED event", map[string]interface{}{"error": err.Error()})
		}
	}

	go rs.mailReportReady(userId, report)

	return &dto.GenerateReportResponse{
		Id:           report.Id,
		DocumentName: report.DocumentName,
		Form:         form,
		CreatedAt:    report.CreatedAt,
	}, nil
}

func (rs *reportService) ListReports(ctx context.Context, userId uuid.UUID) (*dto.ListReportsResponse, error) {
	uow := rs.uowFactory.NewUnitOfWork(ctx)

	reports, err := uow.ReportRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	resp := &dto.ListReportsResponse{Reports: make([]dto.GenerateReportResponse, 0, len(reports))}
	for _, r := range reports {
		var form dto.ReportFormDTO
		if len(r.FormData) > 0 {
			_ = json.Unmarshal(r.FormData, &form)
		}
		resp.Reports = append(resp.Reports, dto.GenerateReportResponse{
			Id:           r.Id,
			DocumentName: r.DocumentName,
			Form:         form,
			CreatedAt:    r.CreatedAt,
		})
	}

	return resp, nil
}

func (rs *reportService) mailReportReady(userId uuid.UUID, report *entity.GeneratedReport) {
	uow := rs.uowFactory.NewUnitOfWork(context.Background())
	user, err := uow.UserRepository().FindOne(context.Background(), specification.ByID{ID: userId})
	if err != nil || user == nil {
		return
	}
	if err := rs.emailService.SendReportReady(user.Email, report.DocumentName, report.CRNumber); err != nil {
		rs.log.Warn("report", "failed to send report mail", map[string]interface{}{"error": err.Error()})
	}
}

func formIsEmpty(form dto.ReportFormDTO) bool {
	return form.PMNumber == "" && form.CRNumber == "" && form.IssueDescription == "" &&
		form.SystemImpacts == "" && form.Risks == ""
}
