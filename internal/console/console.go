// Package console implements the interactive text menu on top of the services.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"todolist/internal/models"
)

// ProjectService is the subset of project operations the menu uses.
type ProjectService interface {
	CreateProject(ctx context.Context, name, description string) (models.Project, error)
	ListProjects(ctx context.Context) ([]models.Project, error)
	GetProject(ctx context.Context, id int64) (models.Project, error)
	DeleteProject(ctx context.Context, id int64) (models.Project, error)
}

// TaskService is the subset of task operations the menu uses.
type TaskService interface {
	AddTask(ctx context.Context, projectID int64, title, description string, deadline *time.Time) (models.Task, error)
	ListTasks(ctx context.Context, projectID int64) ([]models.Task, error)
	ChangeTaskStatus(ctx context.Context, id int64, status string) (models.Task, error)
	DeleteTask(ctx context.Context, id int64) (models.Task, error)
}

const errNotANumber = "ID must be a number"

// Console drives the menu loop.
type Console struct {
	projects ProjectService
	tasks    TaskService
	in       *bufio.Scanner
	out      io.Writer
}

// New returns a console reading commands from in and printing to out.
func New(projects ProjectService, tasks TaskService, in io.Reader, out io.Writer) *Console {
	return &Console{
		projects: projects,
		tasks:    tasks,
		in:       bufio.NewScanner(in),
		out:      out,
	}
}

// Run shows the menu until the user exits, input ends or ctx is cancelled.
func (c *Console) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		c.menu()
		choice, ok := c.prompt("Please enter your choice: ")
		if !ok {
			return c.in.Err()
		}

		switch choice {
		case "1":
			c.listProjects(ctx)
		case "2":
			c.createProject(ctx)
		case "3":
			c.deleteProject(ctx)
		case "4":
			c.listTasks(ctx)
		case "5":
			c.addTask(ctx)
		case "6":
			c.changeStatus(ctx)
		case "7":
			c.deleteTask(ctx)
		case "0":
			c.println("Goodbye!")
			return nil
		default:
			c.result("invalid choice")
		}
	}
}

func (c *Console) menu() {
	c.println("")
	c.println(strings.Repeat("-", 50))
	c.println("          ToDoList")
	c.println(strings.Repeat("=", 50))
	c.println("1. List all projects")
	c.println("2. Create new project")
	c.println("3. Delete project")
	c.println("4. Show tasks in a project")
	c.println("5. Add task to project")
	c.println("6. Change task status")
	c.println("7. Delete task")
	c.println("0. Exit")
	c.println(strings.Repeat("-", 50))
}

func (c *Console) listProjects(ctx context.Context) {
	projects, err := c.projects.ListProjects(ctx)
	if err != nil {
		c.result(err.Error())
		return
	}
	if len(projects) == 0 {
		c.result("No projects found.")
		return
	}

	c.result("All projects:")
	for i, p := range projects {
		fmt.Fprintf(c.out, "  %d. [ID: %d] %s - %s\n", i+1, p.ID, p.Name, p.Description)
	}
}

func (c *Console) createProject(ctx context.Context) {
	name, ok := c.prompt("Project name: ")
	if !ok {
		return
	}
	description, ok := c.prompt("Project description: ")
	if !ok {
		return
	}

	project, err := c.projects.CreateProject(ctx, name, description)
	if err != nil {
		c.result(err.Error())
		return
	}
	c.result(fmt.Sprintf("Project '%s' created successfully. (ID: %d)", project.Name, project.ID))
}

func (c *Console) deleteProject(ctx context.Context) {
	id, ok := c.promptID("Project ID to delete: ")
	if !ok {
		return
	}

	project, err := c.projects.DeleteProject(ctx, id)
	if err != nil {
		c.result(err.Error())
		return
	}
	c.result(fmt.Sprintf("Project '%s' and all its tasks deleted successfully.", project.Name))
}

func (c *Console) listTasks(ctx context.Context) {
	id, ok := c.promptID("Project ID: ")
	if !ok {
		return
	}

	if _, err := c.projects.GetProject(ctx, id); err != nil {
		c.result(err.Error())
		return
	}

	tasks, err := c.tasks.ListTasks(ctx, id)
	if err != nil {
		c.result(err.Error())
		return
	}
	if len(tasks) == 0 {
		c.result("This project has no tasks.")
		return
	}

	c.result(fmt.Sprintf("Tasks in project (ID: %d):", id))
	for i, t := range tasks {
		line := fmt.Sprintf("  %d. [ID: %d] %s (%s) - %s", i+1, t.ID, t.Title, t.Status, t.Description)
		if t.Deadline != nil {
			line += " | deadline " + t.Deadline.Format(time.RFC3339)
		}
		if t.ClosedAt != nil {
			line += " | closed " + t.ClosedAt.Format(time.RFC3339)
		}
		c.println(line)
	}
}

func (c *Console) addTask(ctx context.Context) {
	projectID, ok := c.promptID("Project ID: ")
	if !ok {
		return
	}
	title, ok := c.prompt("Task title: ")
	if !ok {
		return
	}
	description, ok := c.prompt("Task description: ")
	if !ok {
		return
	}
	rawDeadline, ok := c.prompt("Deadline (YYYY-MM-DD, YYYY-MM-DDTHH:MM:SS or RFC 3339, empty for none): ")
	if !ok {
		return
	}

	deadline, err := models.ParseDeadline(rawDeadline)
	if err != nil {
		c.result(err.Error())
		return
	}

	task, err := c.tasks.AddTask(ctx, projectID, title, description, deadline)
	if err != nil {
		c.result(err.Error())
		return
	}
	c.result(fmt.Sprintf("Task '%s' created successfully. (ID: %d)", task.Title, task.ID))
}

func (c *Console) changeStatus(ctx context.Context) {
	id, ok := c.promptID("Task ID: ")
	if !ok {
		return
	}
	c.println("Valid statuses: " + strings.Join(models.TaskStatuses, ", "))
	status, ok := c.prompt("New status: ")
	if !ok {
		return
	}

	task, err := c.tasks.ChangeTaskStatus(ctx, id, strings.ToLower(status))
	if err != nil {
		c.result(err.Error())
		return
	}
	c.result(fmt.Sprintf("Task '%s' is now '%s'.", task.Title, task.Status))
}

func (c *Console) deleteTask(ctx context.Context) {
	id, ok := c.promptID("Task ID to delete: ")
	if !ok {
		return
	}

	task, err := c.tasks.DeleteTask(ctx, id)
	if err != nil {
		c.result(err.Error())
		return
	}
	c.result(fmt.Sprintf("Task '%s' deleted successfully.", task.Title))
}

// prompt prints label and returns the next trimmed input line.
func (c *Console) prompt(label string) (string, bool) {
	fmt.Fprint(c.out, label)
	if !c.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(c.in.Text()), true
}

func (c *Console) promptID(label string) (int64, bool) {
	raw, ok := c.prompt(label)
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		c.result(errNotANumber)
		return 0, false
	}
	return id, true
}

func (c *Console) result(msg string) {
	fmt.Fprintf(c.out, ">>> %s\n", msg)
}

func (c *Console) println(s string) {
	fmt.Fprintln(c.out, s)
}
