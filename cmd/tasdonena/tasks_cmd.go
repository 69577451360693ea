package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/tasdonena/admin-console/modules/tasks"
	"github.com/tasdonena/admin-console/modules/tasks/domain/aggregates/task"
	"github.com/tasdonena/admin-console/modules/tasks/presentation/mappers"
	"github.com/tasdonena/admin-console/modules/tasks/presentation/viewmodels"
	taskservices "github.com/tasdonena/admin-console/modules/tasks/services"
	"github.com/tasdonena/admin-console/pkg/export"
	"github.com/tasdonena/admin-console/pkg/listview"
)

var taskColumns = []export.Column[*viewmodels.TaskRow]{
	{Header: "ID", Value: func(r *viewmodels.TaskRow) any { return r.ID }},
	{Header: "Title", Value: func(r *viewmodels.TaskRow) any { return r.Title }},
	{Header: "KRA", Value: func(r *viewmodels.TaskRow) any { return r.KRA }},
	{Header: "KRA weight", Value: func(r *viewmodels.TaskRow) any { return r.Weight }},
	{Header: "Status", Value: func(r *viewmodels.TaskRow) any { return r.Status }},
	{Header: "Priority", Value: func(r *viewmodels.TaskRow) any { return r.Priority }},
	{Header: "Assignee", Value: func(r *viewmodels.TaskRow) any { return r.Assignee }},
	{Header: "Due date", Value: func(r *viewmodels.TaskRow) any { return r.DueDate }},
}

func (c *cli) tasks() *taskservices.TaskService {
	return c.rt.app.Service(taskservices.TaskService{}).(*taskservices.TaskService)
}

func (c *cli) newTasksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "tasks",
		Short:             "Create, edit and delete tasks",
		PersistentPreRunE: c.guarded(tasks.TaskListLink.Href),
	}
	cmd.AddCommand(
		c.newTasksListCmd(),
		c.newTasksCreateCmd(),
		c.newTasksUpdateCmd(),
		c.newTasksDeleteCmd(),
		c.newTasksOfficersCmd(),
	)
	return cmd
}

func (c *cli) newTasksListCmd() *cobra.Command {
	var (
		lf     listFlags
		status string
		kra    string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := c.tasks()
			if err := svc.Load(cmd.Context()); err != nil {
				return userError(err, nil, "")
			}
			if err := svc.SetStatusFilter(status); err != nil {
				return withCode(exitUsage, err)
			}
			if err := svc.SetKRAFilter(kra); err != nil {
				return withCode(exitUsage, err)
			}
			if err := applyListFlags(svc.List(), lf); err != nil {
				return err
			}
			if lf.xlsx != "" {
				matching := svc.List().Matching()
				rows := make([]*viewmodels.TaskRow, 0, len(matching))
				for _, t := range matching {
					rows = append(rows, mappers.TaskToRow(t))
				}
				if err := export.SaveXLSX(lf.xlsx, export.TableOf("Tasks", taskColumns, rows)); err != nil {
					return withCode(exitGeneric, err)
				}
				fmt.Fprintf(c.errOut, "Wrote %d rows to %s\n", len(rows), lf.xlsx)
			}

			page := mappers.TasksToPage(svc.List(), svc.Busy())
			if c.jsonOut {
				return writeJSONLine(c.out, page)
			}
			if msg := emptyMessage(svc.List().View().Empty, "No tasks yet.", "No tasks match your filters."); msg != "" {
				fmt.Fprintln(c.out, msg)
				return nil
			}
			rows := make([][]string, 0, len(page.Rows))
			for _, r := range page.Rows {
				rows = append(rows, []string{fmt.Sprint(r.ID), r.Title, r.KRA, r.Weight, r.Status, r.Priority, r.Assignee, r.DueDate})
			}
			if err := writeTable(c.out, []string{"ID", "TITLE", "KRA", "WEIGHT", "STATUS", "PRIORITY", "ASSIGNEE", "DUE"}, rows); err != nil {
				return err
			}
			pageFooter(c.out, page.From, page.To, page.Filtered, page.Page, page.TotalPages)
			return nil
		},
	}
	lf.register(cmd, true)
	cmd.Flags().StringVar(&status, "status", listview.AllFilter, "all, pending, in_progress, completed or cancelled")
	cmd.Flags().StringVar(&kra, "kra", "", "KRA contains this text")
	return cmd
}

// taskFlags binds the task form to flags. Only flags given on the command
// line are copied onto a DTO.
type taskFlags struct {
	dto      task.TaskDTO
	assignTo string
}

func (tf *taskFlags) register(f *pflag.FlagSet) {
	f.StringVar(&tf.dto.Title, "title", "", "task title")
	f.StringVar(&tf.dto.Description, "description", "", "description")
	f.StringVar(&tf.dto.MFO, "mfo", "", "major final output")
	f.StringVar(&tf.dto.KRA, "kra", "", "key result area")
	f.StringVar(&tf.dto.KRAWeight, "kra-weight", "", "KRA weight, 0 to 100")
	f.StringVar(&tf.dto.Objective, "objective", "", "objective")
	f.StringArrayVar(&tf.dto.MOVs, "mov", nil, "means of verification (repeatable)")
	f.StringVar(&tf.dto.DueDate, "due-date", "", "due date, YYYY-MM-DD")
	f.StringVar(&tf.dto.CutoffDate, "cutoff-date", "", "cutoff date, YYYY-MM-DD")
	f.StringVar(&tf.dto.TimelineStart, "timeline-start", "", "timeline start, YYYY-MM-DD")
	f.StringVar(&tf.dto.TimelineEnd, "timeline-end", "", "timeline end, YYYY-MM-DD")
	f.StringVar(&tf.dto.Priority, "priority", "", "low, medium or high")
	f.StringVar(&tf.dto.Status, "status", "", "pending, in_progress, completed or cancelled")
	f.StringVar(&tf.assignTo, "assign-to", "", `officer id, name or email; "all" for every officer`)
}

func (tf *taskFlags) apply(f *pflag.FlagSet, dto *task.TaskDTO) {
	set := func(name string, dst *string, v string) {
		if f.Changed(name) {
			*dst = v
		}
	}
	set("title", &dto.Title, tf.dto.Title)
	set("description", &dto.Description, tf.dto.Description)
	set("mfo", &dto.MFO, tf.dto.MFO)
	set("kra", &dto.KRA, tf.dto.KRA)
	set("kra-weight", &dto.KRAWeight, tf.dto.KRAWeight)
	set("objective", &dto.Objective, tf.dto.Objective)
	set("due-date", &dto.DueDate, tf.dto.DueDate)
	set("cutoff-date", &dto.CutoffDate, tf.dto.CutoffDate)
	set("timeline-start", &dto.TimelineStart, tf.dto.TimelineStart)
	set("timeline-end", &dto.TimelineEnd, tf.dto.TimelineEnd)
	set("priority", &dto.Priority, tf.dto.Priority)
	set("status", &dto.Status, tf.dto.Status)
	if f.Changed("mov") {
		dto.MOVs = append([]string(nil), tf.dto.MOVs...)
	}
}

func (c *cli) resolveAssignee(cmd *cobra.Command, svc *taskservices.TaskService, tf *taskFlags, dto *task.TaskDTO) error {
	if !cmd.Flags().Changed("assign-to") {
		return nil
	}
	id, err := svc.ResolveAssignee(cmd.Context(), tf.assignTo)
	if err != nil {
		return withCode(exitUsage, err)
	}
	dto.AssignedTo = id
	return nil
}

func (c *cli) newTasksCreateCmd() *cobra.Command {
	var (
		tf       taskFlags
		fromFile string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a task from flags or a YAML file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var dto task.TaskDTO
			if fromFile != "" {
				loaded, err := task.LoadYAML(fromFile)
				if err != nil {
					return withCode(exitUsage, err)
				}
				dto = loaded
			}
			tf.apply(cmd.Flags(), &dto)

			svc := c.tasks()
			if err := c.resolveAssignee(cmd, svc, &tf, &dto); err != nil {
				return err
			}
			out, err := svc.Create(cmd.Context(), dto)
			if err != nil {
				return userError(err, dto.FirstError, "")
			}
			return c.reportOutcome(out)
		},
	}
	tf.register(cmd.Flags())
	cmd.Flags().StringVarP(&fromFile, "from-file", "f", "", "read the task from this YAML file")
	return cmd
}

func (c *cli) newTasksUpdateCmd() *cobra.Command {
	var (
		tf     taskFlags
		dryRun bool
	)
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change the given fields of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, t, err := c.findTask(cmd, args[0])
			if err != nil {
				return err
			}
			dto := t.ToDTO()
			tf.apply(cmd.Flags(), &dto)
			if err := c.resolveAssignee(cmd, svc, &tf, &dto); err != nil {
				return err
			}

			if dryRun {
				patch, err := svc.Diff(t, dto)
				if err != nil {
					return userError(err, dto.FirstError, "")
				}
				if len(patch) == 0 {
					fmt.Fprintln(c.errOut, "No changes.")
				}
				return writeJSONLine(c.out, patch)
			}
			out, err := svc.Update(cmd.Context(), t, dto)
			if err != nil {
				return userError(err, dto.FirstError, "")
			}
			return c.reportOutcome(out)
		},
	}
	tf.register(cmd.Flags())
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the JSON Patch instead of saving")
	return cmd
}

func (c *cli) newTasksDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, t, err := c.findTask(cmd, args[0])
			if err != nil {
				return err
			}
			out, err := svc.Delete(cmd.Context(), t)
			if err != nil {
				return userError(err, nil, "")
			}
			return c.reportOutcome(out)
		},
	}
}

func (c *cli) newTasksOfficersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "officers",
		Short: "List officers a task can be assigned to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			officers := c.tasks().Officers(cmd.Context())
			if c.jsonOut {
				return writeJSONLine(c.out, officers)
			}
			if len(officers) == 0 {
				fmt.Fprintln(c.out, "No assignable officers.")
				return nil
			}
			rows := make([][]string, 0, len(officers))
			for _, o := range officers {
				rows = append(rows, []string{fmt.Sprint(o.ID), o.Name, o.Email})
			}
			return writeTable(c.out, []string{"ID", "NAME", "EMAIL"}, rows)
		},
	}
}

func (c *cli) findTask(cmd *cobra.Command, arg string) (*taskservices.TaskService, task.Task, error) {
	id, err := parseID(arg)
	if err != nil {
		return nil, task.Task{}, err
	}
	svc := c.tasks()
	if err := svc.Load(cmd.Context()); err != nil {
		return nil, task.Task{}, userError(err, nil, "")
	}
	t, ok := svc.Find(id)
	if !ok {
		return nil, task.Task{}, notFound("task", id)
	}
	return svc, t, nil
}

