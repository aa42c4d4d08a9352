package validator

import (
	"log"
	"math"

	"cvmatch_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

// registerCustomRules регистрирует все кастомные функции валидации в
// переданном экземпляре валидатора.
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			// Критическая ошибка времени запуска - приложение не стартует
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	// 'match_weights': веса критериев неотрицательны и в сумме дают ровно 100.
	// Проверяется на границе create/update проекта; скоринговое ядро этот
	// инвариант не перепроверяет.
	mustRegister("match_weights", validateMatchWeights)
}

func validateMatchWeights(fl validator.FieldLevel) bool {
	weights, ok := fl.Field().Interface().(models.CriteriaWeights)
	if !ok {
		return false
	}

	if weights.YearsExperience < 0 || weights.RoleMatch < 0 || weights.SkillsMatch < 0 ||
		weights.IndustryMatch < 0 || weights.JobStability < 0 {
		return false
	}

	// Допуск на погрешность float при десериализации JSON
	return math.Abs(weights.Sum()-100) < 1e-9
}
