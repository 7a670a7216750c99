package party

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/nutrition-program-api/internal/application/dto"
	"github.com/jhoicas/nutrition-program-api/internal/domain"
	"github.com/jhoicas/nutrition-program-api/internal/domain/entity"
	"github.com/jhoicas/nutrition-program-api/internal/domain/repository"
)

const dateLayout = "2006-01-02"

// RegistryUseCase administra contratistas y su supporter opcional.
// Mantiene la regla de un único contratista activo: chequeo dentro de la transacción
// para informar al cliente y el índice único parcial de la BD para las carreras.
type RegistryUseCase struct {
	txRunner       TxRunner
	contractorRepo repository.ContractorRepository
	metrics        ConflictRecorder
	log            zerolog.Logger
}

// NewRegistryUseCase construye el caso de uso.
func NewRegistryUseCase(
	txRunner TxRunner,
	contractorRepo repository.ContractorRepository,
	metrics ConflictRecorder,
	log zerolog.Logger,
) *RegistryUseCase {
	return &RegistryUseCase{
		txRunner:       txRunner,
		contractorRepo: contractorRepo,
		metrics:        metrics,
		log:            log,
	}
}

// contractorInput es el request ya validado y normalizado.
type contractorInput struct {
	nic             string
	fullName        string
	contactNumber   string
	address         string
	agreementNumber string
	startDate       *time.Time
	endDate         *time.Time
	active          bool
	hasSupporter    bool
	supporter       supporterInput
}

type supporterInput struct {
	nic           string
	name          string
	contactNumber string
	address       string
	active        bool
}

// Create crea un contratista y, si se pidió, su supporter en la misma transacción.
// Si el contratista llega activo y ya hay otro activo no se escribe nada y se devuelve
// *domain.ExclusivityConflictError con el contratista activo.
func (uc *RegistryUseCase) Create(ctx context.Context, caller entity.Identity, in dto.ContractorRequest) (*dto.ContractorResponse, error) {
	if !caller.Is(entity.RoleDEO) {
		return nil, domain.ErrForbidden
	}
	input, err := parseContractorInput(in.NICNumber, in)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var view *entity.ContractorView
	err = uc.txRunner.RunParty(ctx, func(contractorRepo repository.ContractorRepository, supporterRepo repository.SupporterRepository) error {
		existing, err := contractorRepo.GetByNIC(ctx, input.nic)
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("%w: ya existe un contratista con NIC %s", domain.ErrDuplicate, input.nic)
		}

		if input.active {
			other, err := contractorRepo.FindOtherActive(ctx, "")
			if err != nil {
				return err
			}
			if other != nil {
				return &domain.ExclusivityConflictError{Active: *other}
			}
		}

		contractor := &entity.Contractor{
			ID:        uuid.New().String(),
			NICNumber: input.nic,
			CreatedAt: now,
		}
		input.applyTo(contractor, now)
		if err := contractorRepo.Create(ctx, contractor); err != nil {
			return err
		}

		if input.hasSupporter {
			supporter := &entity.Supporter{
				ID:           uuid.New().String(),
				ContractorID: contractor.ID,
				CreatedAt:    now,
			}
			input.supporter.applyTo(supporter, now)
			if err := supporterRepo.Create(ctx, supporter); err != nil {
				return err
			}
		}

		view, err = contractorRepo.GetByNIC(ctx, input.nic)
		return err
	})
	if err != nil {
		return nil, uc.translateWriteError(ctx, input.nic, err)
	}
	if view == nil {
		return nil, domain.ErrNotFound
	}
	return toContractorResponse(view), nil
}

// Update reemplaza los campos mutables del contratista identificado por nic y reconcilia su supporter:
//   - has_supporter=yes, sin supporter → insert
//   - has_supporter=yes, con supporter → update en sitio
//   - has_supporter=no, con supporter → delete
//   - has_supporter=no, sin supporter → no-op
//
// El chequeo de exclusividad solo corre cuando la fila guardada está inactiva y se pide active=true.
func (uc *RegistryUseCase) Update(ctx context.Context, caller entity.Identity, nic string, in dto.ContractorRequest) (*dto.ContractorResponse, error) {
	if !caller.Is(entity.RoleDEO) {
		return nil, domain.ErrForbidden
	}
	input, err := parseContractorInput(nic, in)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var view *entity.ContractorView
	err = uc.txRunner.RunParty(ctx, func(contractorRepo repository.ContractorRepository, supporterRepo repository.SupporterRepository) error {
		current, err := contractorRepo.GetByNICForUpdate(ctx, input.nic)
		if err != nil {
			return err
		}
		if current == nil {
			return domain.ErrNotFound
		}

		if input.active && !current.Active {
			other, err := contractorRepo.FindOtherActive(ctx, input.nic)
			if err != nil {
				return err
			}
			if other != nil {
				return &domain.ExclusivityConflictError{Active: *other}
			}
		}

		input.applyTo(current, now)
		if err := contractorRepo.Update(ctx, current); err != nil {
			return err
		}

		supporter, err := supporterRepo.GetByContractor(ctx, current.ID)
		if err != nil {
			return err
		}
		switch {
		case input.hasSupporter && supporter == nil:
			supporter = &entity.Supporter{
				ID:           uuid.New().String(),
				ContractorID: current.ID,
				CreatedAt:    now,
			}
			input.supporter.applyTo(supporter, now)
			if err := supporterRepo.Create(ctx, supporter); err != nil {
				return err
			}
		case input.hasSupporter && supporter != nil:
			input.supporter.applyTo(supporter, now)
			if err := supporterRepo.Update(ctx, supporter); err != nil {
				return err
			}
		case !input.hasSupporter && supporter != nil:
			if err := supporterRepo.DeleteByContractor(ctx, current.ID); err != nil {
				return err
			}
		}

		view, err = contractorRepo.GetByNIC(ctx, input.nic)
		return err
	})
	if err != nil {
		return nil, uc.translateWriteError(ctx, input.nic, err)
	}
	if view == nil {
		return nil, domain.ErrNotFound
	}
	return toContractorResponse(view), nil
}

// Delete elimina supporter (si existe) y luego el contratista, en una sola transacción.
func (uc *RegistryUseCase) Delete(ctx context.Context, caller entity.Identity, nic string) error {
	if !caller.Is(entity.RoleDEO) {
		return domain.ErrForbidden
	}
	nic = strings.TrimSpace(nic)
	if nic == "" {
		return fmt.Errorf("%w: nic es requerido", domain.ErrInvalidInput)
	}
	return uc.txRunner.RunParty(ctx, func(contractorRepo repository.ContractorRepository, supporterRepo repository.SupporterRepository) error {
		current, err := contractorRepo.GetByNICForUpdate(ctx, nic)
		if err != nil {
			return err
		}
		if current == nil {
			return domain.ErrNotFound
		}
		if err := supporterRepo.DeleteByContractor(ctx, current.ID); err != nil {
			return err
		}
		return contractorRepo.Delete(ctx, current.ID)
	})
}

// List lista todos los contratistas con su supporter, más recientes primero.
func (uc *RegistryUseCase) List(ctx context.Context, caller entity.Identity) ([]*dto.ContractorResponse, error) {
	if !caller.Is(entity.RoleDEO) {
		return nil, domain.ErrForbidden
	}
	list, err := uc.contractorRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ContractorResponse, 0, len(list))
	for _, v := range list {
		out = append(out, toContractorResponse(v))
	}
	return out, nil
}

// GetByNIC obtiene un contratista (con supporter) por NIC.
func (uc *RegistryUseCase) GetByNIC(ctx context.Context, caller entity.Identity, nic string) (*dto.ContractorResponse, error) {
	if !caller.Is(entity.RoleDEO) {
		return nil, domain.ErrForbidden
	}
	view, err := uc.contractorRepo.GetByNIC(ctx, strings.TrimSpace(nic))
	if err != nil {
		return nil, err
	}
	if view == nil {
		return nil, domain.ErrNotFound
	}
	return toContractorResponse(view), nil
}

// GetActive obtiene el contratista activo. ErrNotFound si no hay ninguno.
func (uc *RegistryUseCase) GetActive(ctx context.Context, caller entity.Identity) (*dto.ContractorResponse, error) {
	if !caller.Is(entity.RoleDEO) {
		return nil, domain.ErrForbidden
	}
	view, err := uc.contractorRepo.GetActive(ctx)
	if err != nil {
		return nil, err
	}
	if view == nil {
		return nil, domain.ErrNotFound
	}
	return toContractorResponse(view), nil
}

// translateWriteError completa el conflicto de exclusividad cuando vino del índice único parcial:
// la tx ya hizo rollback, así que el contratista ganador se lee fuera de ella.
func (uc *RegistryUseCase) translateWriteError(ctx context.Context, nic string, err error) error {
	var conflict *domain.ExclusivityConflictError
	if !errors.As(err, &conflict) {
		return err
	}
	uc.metrics.IncExclusivityConflict()
	if conflict.Active.ID == "" {
		other, lookupErr := uc.contractorRepo.FindOtherActive(ctx, nic)
		if lookupErr != nil {
			return lookupErr
		}
		if other != nil {
			conflict.Active = *other
		}
	}
	uc.log.Warn().
		Str("nic", nic).
		Str("active_nic", conflict.Active.NICNumber).
		Msg("activación rechazada: ya existe un contratista activo")
	return conflict
}

// parseContractorInput valida y normaliza el request. nic es el NIC efectivo (body en POST, ruta en PUT).
func parseContractorInput(nic string, in dto.ContractorRequest) (*contractorInput, error) {
	input := &contractorInput{
		nic:             strings.TrimSpace(nic),
		fullName:        strings.TrimSpace(in.FullName),
		contactNumber:   strings.TrimSpace(in.ContactNumber),
		address:         strings.TrimSpace(in.Address),
		agreementNumber: strings.TrimSpace(in.AgreementNumber),
		active:          in.Active.Bool(),
		hasSupporter:    in.HasSupporter.Bool(),
	}
	var problems []string
	if input.nic == "" {
		problems = append(problems, "nic_number es requerido")
	}
	if input.fullName == "" {
		problems = append(problems, "full_name es requerido")
	}

	var err error
	if input.startDate, err = parseDate(in.AgreementStartDate); err != nil {
		problems = append(problems, "agreement_start_date inválida (YYYY-MM-DD)")
	}
	if input.endDate, err = parseDate(in.AgreementEndDate); err != nil {
		problems = append(problems, "agreement_end_date inválida (YYYY-MM-DD)")
	}
	if input.startDate != nil && input.endDate != nil && input.endDate.Before(*input.startDate) {
		problems = append(problems, "agreement_end_date debe ser posterior a agreement_start_date")
	}

	if input.hasSupporter {
		s := in.Supporter
		if s == nil {
			s = &dto.SupporterIn{}
		}
		input.supporter = supporterInput{
			nic:           strings.TrimSpace(s.NICNumber),
			name:          strings.TrimSpace(s.Name),
			contactNumber: strings.TrimSpace(s.ContactNumber),
			address:       strings.TrimSpace(s.Address),
			active:        s.Active.Bool(),
		}
		if input.supporter.nic == "" || input.supporter.name == "" || input.supporter.contactNumber == "" {
			problems = append(problems, "supporter requiere nic_number, name y contact_number cuando has_supporter=yes")
		}
		if input.supporter.nic != "" && input.supporter.nic == input.nic {
			problems = append(problems, "el NIC del supporter no puede ser el del contratista")
		}
	}

	if len(problems) > 0 {
		return nil, &domain.ValidationError{Problems: problems}
	}
	return input, nil
}

func (in *contractorInput) applyTo(c *entity.Contractor, now time.Time) {
	c.FullName = in.fullName
	c.ContactNumber = in.contactNumber
	c.Address = in.address
	c.AgreementNumber = in.agreementNumber
	c.AgreementStartDate = in.startDate
	c.AgreementEndDate = in.endDate
	c.Active = in.active
	c.UpdatedAt = now
}

func (in supporterInput) applyTo(s *entity.Supporter, now time.Time) {
	s.NICNumber = in.nic
	s.Name = in.name
	s.ContactNumber = in.contactNumber
	s.Address = in.address
	s.Active = in.active
	s.UpdatedAt = now
}

func parseDate(raw *string) (*time.Time, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	value := strings.TrimSpace(*raw)
	for _, layout := range []string{dateLayout, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return &d, nil
		}
	}
	return nil, domain.ErrInvalidInput
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}

func toContractorResponse(v *entity.ContractorView) *dto.ContractorResponse {
	if v == nil {
		return nil
	}
	out := &dto.ContractorResponse{
		ID:                 v.ID,
		NICNumber:          v.NICNumber,
		FullName:           v.FullName,
		ContactNumber:      v.ContactNumber,
		Address:            v.Address,
		AgreementNumber:    v.AgreementNumber,
		AgreementStartDate: formatDate(v.AgreementStartDate),
		AgreementEndDate:   formatDate(v.AgreementEndDate),
		Active:             v.Active,
		HasSupporter:       v.HasSupporter,
		CreatedAt:          v.CreatedAt,
		UpdatedAt:          v.UpdatedAt,
	}
	if v.Supporter != nil {
		out.Supporter = &dto.SupporterResponse{
			ID:            v.Supporter.ID,
			NICNumber:     v.Supporter.NICNumber,
			Name:          v.Supporter.Name,
			ContactNumber: v.Supporter.ContactNumber,
			Address:       v.Supporter.Address,
			Active:        v.Supporter.Active,
		}
	}
	return out
}
