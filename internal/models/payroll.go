package models

// PayrollRecord - строка расчетной ведомости за месяц.
// Все суммы считает сервер, клиент их только отображает.
type PayrollRecord struct {
    EmployeeID   uint    `json:"employeeId"`
    EmployeeName string  `json:"employeeName"`
    Department   string  `json:"department"`
    Position     string  `json:"position"`
    HoursWorked  float64 `json:"hoursWorked"`
    HourlyRate   float64 `json:"hourlyRate"`
    GrossPay     float64 `json:"grossPay"`
    Deductions   float64 `json:"deductions"`
    NetPay       float64 `json:"netPay"`
}

// PayrollTotals - итоговая строка ведомости
type PayrollTotals struct {
    GrossPay   float64
    Deductions float64
    NetPay     float64
}

// SumPayroll суммирует ведомость для итоговой строки.
// Пересчета зарплат на клиенте нет - только сложение готовых сумм.
func SumPayroll(records []PayrollRecord) PayrollTotals {
    var totals PayrollTotals
    for _, r := range records {
        totals.GrossPay += r.GrossPay
        totals.Deductions += r.Deductions
        totals.NetPay += r.NetPay
    }
    return totals
}
