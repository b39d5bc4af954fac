package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	mathrand "math/rand"
	"time"

	"github.com/mozillazg/go-pinyin"
	"golang.org/x/crypto/bcrypt"

	"github.com/sysu-ecnc-dev/duty-manager/backend/internal/domain"
)

var commonSurnames = []string{
	"王", "李", "张", "刘", "陈", "杨", "赵", "黄", "周", "吴",
	"徐", "孙", "胡", "朱", "高", "林", "何", "郭", "马", "罗",
}
var commonNameCharacters = []string{
	"伟", "强", "芳", "敏", "静", "丽", "刚", "杰", "娟", "勇",
	"艳", "涛", "明", "军", "磊", "洋", "勇", "霞", "飞", "玲",
	"超", "华", "平", "辉", "梅", "鑫", "龙", "鹏", "玉", "斌",
	"庆", "建", "丹", "彬", "凤", "旭", "宁", "乐", "成", "欣",
}

func GenerateRandomChineseName() string {
	surname := commonSurnames[mathrand.Intn(len(commonSurnames))]
	nameLength := mathrand.Intn(2) + 1
	name := ""

	for i := 0; i < nameLength; i++ {
		name += commonNameCharacters[mathrand.Intn(len(commonNameCharacters))]
	}
	return surname + name
}

var digits = "0123456789"

func GenerateUsernameFromChineseName(chineseName string) string {
	pinyinArray := pinyin.LazyConvert(chineseName, nil)
	username := ""

	for _, pinyin := range pinyinArray {
		length := mathrand.Intn(len(pinyin)) + 1
		username += pinyin[:length]
	}

	digitsLength := mathrand.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		username += string(digits[mathrand.Intn(len(digits))])
	}

	return username
}

var roles = []domain.Role{
	domain.RoleManager,
	domain.RoleUser,
}

func GenerateRandomRole() domain.Role {
	return roles[mathrand.Intn(len(roles))]
}

func GenerateRandomUser(password string, emailDomainName string) (*domain.User, error) {
	fullName := GenerateRandomChineseName()
	username := GenerateUsernameFromChineseName(fullName)
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: string(passwordHash),
		FullName:     fullName,
		Email:        username + "@" + emailDomainName,
		Role:         GenerateRandomRole(),
		Permissions:  domain.DefaultViewPermissions,
	}

	return user, nil
}

// GenerateOTP 生成 6 位数字验证码，验证码用于重置密码所以必须用加密安全的随机源
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

var passwordLetters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*")

// GenerateRandomPassword 生成新用户的初始密码，同样使用加密安全的随机源
func GenerateRandomPassword(length int) (string, error) {
	password := make([]rune, length)
	for i := range password {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(passwordLetters))))
		if err != nil {
			return "", err
		}
		password[i] = passwordLetters[n.Int64()]
	}
	return string(password), nil
}

var employeeRoles = []string{"巡逻", "调度", "文书", "后勤"}
var employeeCategories = []string{"正式", "合同", "志愿"}

func GenerateRandomEmployee() *domain.Employee {
	name := GenerateRandomChineseName()
	username := GenerateUsernameFromChineseName(name)

	return &domain.Employee{
		Name:     name,
		Role:     employeeRoles[mathrand.Intn(len(employeeRoles))],
		Category: employeeCategories[mathrand.Intn(len(employeeCategories))],
		Phone:    fmt.Sprintf("13%09d", mathrand.Intn(1000000000)),
		Email:    username + "@example.com",
	}
}

var vehicleTypes = []string{"巡逻车", "指挥车", "摩托车", "面包车"}
var vehicleModels = []string{"大众朗逸", "丰田凯美瑞", "别克GL8", "春风650"}
var vehicleStatuses = []string{"available", "in_use", "maintenance"}

var provinceLetters = []rune("京沪粤苏浙川渝鲁")
var plateLetters = []rune("ABCDEFGHJKLMNPQRSTUVWXYZ")

func GenerateRandomVehicle() *domain.Vehicle {
	plate := string(provinceLetters[mathrand.Intn(len(provinceLetters))]) +
		string(plateLetters[mathrand.Intn(len(plateLetters))]) +
		fmt.Sprintf("%05d", mathrand.Intn(100000))

	year := int32(mathrand.Intn(15) + 2010)
	lastInspection := time.Now().AddDate(0, -mathrand.Intn(12), 0)
	nextInspection := lastInspection.AddDate(1, 0, 0)

	return &domain.Vehicle{
		LicensePlate:   plate,
		VehicleType:    vehicleTypes[mathrand.Intn(len(vehicleTypes))],
		Model:          vehicleModels[mathrand.Intn(len(vehicleModels))],
		Year:           &year,
		Status:         vehicleStatuses[mathrand.Intn(len(vehicleStatuses))],
		LastInspection: &lastInspection,
		NextInspection: &nextInspection,
	}
}

var shiftTypes = []string{
	domain.ShiftTypeMorning,
	domain.ShiftTypeAfternoon,
	domain.ShiftTypeEvening,
}

var assignmentStatuses = []string{"confirmed", "pending", "late"}

// GenerateRandomShift 为某一天随机生成一个班次，员工从给定列表中抽取
func GenerateRandomShift(date time.Time, employees []*domain.Employee) *domain.Shift {
	shift := &domain.Shift{
		Date:        date,
		ShiftType:   shiftTypes[mathrand.Intn(len(shiftTypes))],
		Assignments: []domain.Assignment{},
	}

	if len(employees) == 0 {
		return shift
	}

	n := mathrand.Intn(3) + 1
	seen := make(map[int64]bool)
	for i := 0; i < n; i++ {
		employee := employees[mathrand.Intn(len(employees))]
		if seen[employee.ID] {
			continue
		}
		seen[employee.ID] = true

		asg := domain.Assignment{
			EmployeeID: employee.ID,
			Tasks:      []string{},
		}
		if mathrand.Intn(2) == 0 {
			status := assignmentStatuses[mathrand.Intn(len(assignmentStatuses))]
			asg.Status = &status
		}
		shift.Assignments = append(shift.Assignments, asg)
	}

	return shift
}

var generalTaskPool = []string{"车辆检查", "装备清点", "辖区巡逻", "档案整理", "交接班记录"}
var shiftTaskPool = []string{"门岗执勤", "视频巡查", "接处警", "内勤值守"}

func randomTasks(pool []string, max int) []string {
	n := mathrand.Intn(max + 1)
	tasks := make([]string, 0, n)
	for i := 0; i < n; i++ {
		tasks = append(tasks, pool[mathrand.Intn(len(pool))])
	}
	return tasks
}

func GenerateRandomWorkPlan(date time.Time) *domain.WorkPlan {
	plan := &domain.WorkPlan{
		Date:         date,
		GeneralTasks: randomTasks(generalTaskPool, 3),
		ShiftTasks:   map[string][]string{},
	}

	for _, shiftType := range shiftTypes {
		if mathrand.Intn(2) == 0 {
			plan.ShiftTasks[shiftType] = randomTasks(shiftTaskPool, 2)
		}
	}

	return plan
}
